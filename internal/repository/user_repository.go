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

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	// If ID is not set, generate a new one
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}

	return nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks up a user by email, username or phone.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"email": identifier},
		{"username": identifier},
		{"phone": identifier},
	}}

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"googleId": googleID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IncrementConversationCount bumps the cached counter by one and stamps
// lastChatAt. A single $inc keeps concurrent chats for the same user from
// losing updates; upsert covers users created before the counter existed.
func (r *UserRepository) IncrementConversationCount(ctx context.Context, username string, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"conversationCount": 1},
		"$set": bson.M{
			"lastChatAt": at,
			"updatedAt":  at,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"username": username}, update, opts)
	return err
}

// SetConversationCount overwrites the cached counter. Used by the
// reconciliation worker when the counter has drifted from the log.
func (r *UserRepository) SetConversationCount(ctx context.Context, username string, count int) error {
	update := bson.M{
		"$set": bson.M{
			"conversationCount": count,
			"updatedAt":         time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"username": username}, update)
	return err
}

func (r *UserRepository) GetConversationCount(ctx context.Context, username string) (int, error) {
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return user.ConversationCount, nil
}

// ListUsernames returns every known username. The reconciliation worker
// walks this list; the user base is small enough to scan.
func (r *UserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"username": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Username string `bson:"username"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Username != "" {
			names = append(names, d.Username)
		}
	}
	return names, nil
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"refreshToken": refreshToken,
			"updatedAt":    time.Now(),
		},
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}
