package repository

import (
	"context"
	"time"

	"mental-wellness-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository is the append-only log of scored chat exchanges.
// Entries are only ever inserted; there is no update or delete path.
type ConversationRepository struct {
	collection *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{
		collection: db.Collection("conversations"),
	}
}

func (r *ConversationRepository) Insert(ctx context.Context, entry *models.ConversationLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByUsername returns every log entry for a user, oldest first.
func (r *ConversationRepository) FindByUsername(ctx context.Context, username string) ([]models.ConversationLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.ConversationLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByUsername recomputes the true interaction count from the log. The
// cached counter on the user document is reconciled against this.
func (r *ConversationRepository) CountByUsername(ctx context.Context, username string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
