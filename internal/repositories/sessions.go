package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vidtube/backend/internal/auth"
)

type sessionDoc struct {
	RefreshToken string    `bson:"_id"`
	UserID       string    `bson:"userId"`
	ExpiresAt    time.Time `bson:"expiresAt"`
}

// MongoSessionStore persists refresh tokens to MongoDB. The sessions
// collection carries a TTL index on expiresAt, so expired sessions also
// age out server-side.
type MongoSessionStore struct {
	sessions *mongo.Collection
}

// NewMongoSessionStore constructs a session store backed by MongoDB.
func NewMongoSessionStore(db *mongo.Database) *MongoSessionStore {
	return &MongoSessionStore{sessions: db.Collection(CollectionSessions)}
}

// Save stores or updates a session record.
func (s *MongoSessionStore) Save(ctx context.Context, session auth.Session) error {
	doc := sessionDoc{
		RefreshToken: session.RefreshToken,
		UserID:       session.UserID,
		ExpiresAt:    session.ExpiresAt.UTC(),
	}

	_, err := s.sessions.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.RefreshToken}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Find loads a session by its refresh token.
func (s *MongoSessionStore) Find(ctx context.Context, refreshToken string) (auth.Session, error) {
	var doc sessionDoc
	err := s.sessions.FindOne(ctx, bson.D{{Key: "_id", Value: refreshToken}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("select session: %w", err)
	}

	return auth.Session{
		RefreshToken: doc.RefreshToken,
		UserID:       doc.UserID,
		ExpiresAt:    doc.ExpiresAt.UTC(),
	}, nil
}

// Delete removes a session by its refresh token.
func (s *MongoSessionStore) Delete(ctx context.Context, refreshToken string) error {
	res, err := s.sessions.DeleteOne(ctx, bson.D{{Key: "_id", Value: refreshToken}})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}
