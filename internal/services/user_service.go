package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/pookie-backend/internal/database"
	"github.com/AnshRaj112/pookie-backend/internal/models"
)

// GetUserByID retrieves the public profile for an active user.
// Returns nil without error when the user is not found or inactive.
func GetUserByID(userID string) (*models.User, error) {
	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var username string
	var createdAt time.Time
	err = database.PostgresDB.QueryRow(`
		SELECT username, created_at FROM users WHERE id = $1 AND is_active = TRUE
	`, parsedID).Scan(&username, &createdAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &models.User{ID: userID, Username: username, CreatedAt: createdAt}, nil
}
