package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/pookie-backend/internal/database"
	"github.com/AnshRaj112/pookie-backend/internal/models"
	"github.com/AnshRaj112/pookie-backend/internal/services"
	"github.com/AnshRaj112/pookie-backend/pkg/clientip"
	"github.com/AnshRaj112/pookie-backend/pkg/utils"
)

// validateSession resolves a bearer token to a user ID. Indirection exists
// so handler tests can stub authentication without Redis.
var validateSession = services.ValidateSession

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

// AuthResponse returns only anonymous profile data plus the session token.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// extractBearerToken pulls the token out of an Authorization header.
func extractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return header
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: message})
}

// CheckUsernameAvailability checks if a username is available
func CheckUsernameAvailability(w http.ResponseWriter, r *http.Request) {
	var req CheckUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   false,
			"available": false,
			"message":   err.Error(),
		})
		return
	}

	normalizedUsername := utils.NormalizeUsername(req.Username)

	var existingUsername string
	err := database.PostgresDB.QueryRow(
		"SELECT username FROM users WHERE LOWER(username) = $1",
		normalizedUsername,
	).Scan(&existingUsername)

	available := err == sql.ErrNoRows

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"available": available,
		"username":  req.Username,
		"message":   map[bool]string{true: "Username is available", false: "Username is already taken"}[available],
	})
}

// Signup handles privacy-first user registration: username and password
// only, nothing else is collected.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		writeAuthError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Password) < 8 {
		writeAuthError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	normalizedUsername := utils.NormalizeUsername(req.Username)

	var existingUsername string
	err := database.PostgresDB.QueryRow(
		"SELECT username FROM users WHERE LOWER(username) = $1",
		normalizedUsername,
	).Scan(&existingUsername)
	if err == nil {
		writeAuthError(w, http.StatusConflict, "Username is already taken")
		return
	} else if err != sql.ErrNoRows {
		writeAuthError(w, http.StatusInternalServerError, "Database error")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	userID := uuid.New()
	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, username, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, NOW(), TRUE)
	`, userID, normalizedUsername, hashedPassword)
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "Account created successfully",
		Token:   token,
		User: &models.User{
			ID:        userID.String(),
			Username:  normalizedUsername,
			CreatedAt: time.Now(),
		},
	})
}

// Signin handles privacy-first user login and issues a session token.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeAuthError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	normalizedUsername := utils.NormalizeUsername(req.Username)

	var userID uuid.UUID
	var passwordHash string
	var isActive bool
	var createdAt time.Time

	err := database.PostgresDB.QueryRow(`
		SELECT id, password_hash, created_at, is_active
		FROM users
		WHERE LOWER(username) = $1
	`, normalizedUsername).Scan(&userID, &passwordHash, &createdAt, &isActive)

	if err != nil {
		if err == sql.ErrNoRows {
			writeAuthError(w, http.StatusUnauthorized, "Invalid username or password")
		} else {
			writeAuthError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !isActive {
		writeAuthError(w, http.StatusForbidden, "Account is inactive")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeAuthError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// Track device for support purposes; failures are not critical for login
	deviceToken := uuid.NewString()
	database.PostgresDB.Exec(`
		INSERT INTO user_devices (id, user_id, device_token, ip_address, user_agent, last_used, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (device_token) DO UPDATE SET
			user_id = $1,
			last_used = NOW(),
			ip_address = $3,
			user_agent = $4
	`, userID, deviceToken, clientip.RealClientIP(r), r.UserAgent())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: &models.User{
			ID:        userID.String(),
			Username:  normalizedUsername,
			CreatedAt: createdAt,
		},
	})
}

// GetMe returns the authenticated user's public profile.
func GetMe(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	userID, ok, err := validateSession(token)
	if err != nil || !ok {
		writeAuthError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Profile lookups are hot on page load; serve from cache when possible
	cacheKey := "user_profile:" + userID.String()
	var user models.User
	if hit, _ := services.Cache.Get(cacheKey, &user); !hit {
		profile, err := services.GetUserByID(userID.String())
		if err != nil {
			writeAuthError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if profile == nil {
			writeAuthError(w, http.StatusUnauthorized, "Account not found or inactive")
			return
		}
		user = *profile
		services.Cache.Set(cacheKey, user)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "OK",
		User:    &user,
	})
}

// Signout invalidates the current session. Always succeeds.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	services.InvalidateSession(token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "Signed out",
	})
}
