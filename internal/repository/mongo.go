package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

const entriesCollection = "entries"

// MongoRepository stores entries in an owner-scoped MongoDB collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection(entriesCollection)}
}

// EnsureEntryIndexes creates the owner/created_at index used by List.
func EnsureEntryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(entriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, entry models.JournalEntry) (string, error) {
	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (r *MongoRepository) List(ctx context.Context, ownerID string) ([]models.JournalEntry, error) {
	filter := bson.M{"owner_id": ownerID}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})

	cursor, err := r.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.JournalEntry, 0)
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes an entry by id within the owner's scope. A missing id is
// treated as success (DeletedCount 0 is not an error).
func (r *MongoRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	return err
}
