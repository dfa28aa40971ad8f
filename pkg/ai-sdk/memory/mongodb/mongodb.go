package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/rs/zerolog/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const advisorSessionsCollection = "advisor_sessions"

// Store implements memory.Store using MongoDB
type Store struct {
	database *mongo.Database
}

// Connect dials uri and returns a store on the named database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return New(client.Database(database)), nil
}

// New creates a new MongoDB session store with the given database
func New(database *mongo.Database) *Store {
	store := &Store{
		database: database,
	}
	store.ensureIndexes()
	return store
}

func (s *Store) collection() *mongo.Collection {
	return s.database.Collection(advisorSessionsCollection)
}

func (s *Store) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "updated_at", Value: -1}},
		},
	}

	if _, err := s.collection().Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn().Err(err).Msgf("Failed to create indexes for %s", advisorSessionsCollection)
	}
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (types.Session, error) {
	var session types.Session

	err := s.collection().FindOne(ctx, bson.M{"id": sessionID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return memory.NewSession(sessionID), nil
	}
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to find session: %w", err)
	}

	return session, nil
}

// SaveSession upserts the session document
func (s *Store) SaveSession(ctx context.Context, session types.Session) error {
	if session.ID == "" {
		return types.ErrInvalidSession
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	update := sessionUpdate(session)

	opts := options.Update().SetUpsert(true)
	if _, err := s.collection().UpdateOne(ctx, bson.M{"id": session.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.collection().DeleteOne(ctx, bson.M{"id": sessionID}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *Store) DeleteIdleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := time.Now().Add(-idleFor)

	result, err := s.collection().DeleteMany(ctx, idleFilter(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}

	return int(result.DeletedCount), nil
}

// sessionUpdate keeps created_at from the first insert and overwrites the rest.
func sessionUpdate(session types.Session) bson.M {
	return bson.M{
		"$set": bson.M{
			"id":          session.ID,
			"last_task":   session.LastTask,
			"last_prompt": session.LastPrompt,
			"last_output": session.LastOutput,
			"updated_at":  session.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"created_at": session.CreatedAt,
		},
	}
}

func idleFilter(cutoff time.Time) bson.M {
	return bson.M{"updated_at": bson.M{"$lt": cutoff}}
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.database.Client().Disconnect(ctx)
}
