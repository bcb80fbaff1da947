package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	runsCollection         = "runs"
	mongoDisconnectTimeout = 5 * time.Second
)

// MongoStore is a MongoDB-backed run archive for shared deployments.
// Runs are stored as documents keyed by their UUID.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
// The uri uses the standard mongodb:// scheme; database names the
// database holding the runs collection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		err = fmt.Errorf("ping mongodb: %w", err)
		return nil, errors.Join(err, client.Disconnect(ctx))
	}
	return &MongoStore{
		client: client,
		runs:   client.Database(database).Collection(runsCollection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, run *Run) error {
	if _, err := s.runs.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	return &run, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*Run, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}

	cursor, err := s.runs.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	var runs []*Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
