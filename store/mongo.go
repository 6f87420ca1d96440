package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/LovationAdmin/expense-api/models"
)

// UsersCollection holds one document per user with an embedded expenses array.
const UsersCollection = "users"

var _ Store = (*MongoStore)(nil)

type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

// NewMongoStore connects, pings and makes sure UserID is indexed.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is required for the mongo backend")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		users:  client.Database(database).Collection(UsersCollection),
	}

	// Older collections may hold duplicate UserID documents; the index is
	// then skipped and lookups fall back to the first match.
	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "UserID", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		slog.Warn("Could not create UserID index", "error", err)
	}

	return s, nil
}

// AppendExpense pushes onto the embedded array with an upsert, so the append
// and the lazy user creation are a single server-side write.
func (s *MongoStore) AppendExpense(ctx context.Context, userID string, e models.Expense) error {
	e.Contacts = nonNil(e.Contacts)
	_, err := s.users.UpdateOne(ctx,
		bson.M{"UserID": userID},
		bson.M{"$push": bson.M{"expenses": e}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to append expense: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"UserID": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return normalizeUser(&user), nil
}

func (s *MongoStore) EnsureUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"UserID": userID},
		bson.M{"$setOnInsert": bson.M{"expenses": bson.A{}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return normalizeUser(&user), nil
}

// Collection exposes the users collection to maintenance jobs.
func (s *MongoStore) Collection() *mongo.Collection {
	return s.users
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func normalizeUser(u *models.User) *models.User {
	if u.Expenses == nil {
		u.Expenses = []models.Expense{}
	}
	for i := range u.Expenses {
		u.Expenses[i].Contacts = nonNil(u.Expenses[i].Contacts)
		u.Expenses[i].CreatedAt = u.Expenses[i].CreatedAt.UTC()
	}
	return u
}
