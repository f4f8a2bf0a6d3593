package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default MongoDB names used by [NewMongoCache] when empty.
const (
	DefaultMongoDatabase   = "treematch"
	DefaultMongoCollection = "results"
)

// mongoEntry is the stored document. ExpiresAt is zero for entries
// without expiry.
type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// MongoCache stores entries as documents keyed by _id. A TTL index on
// expires_at lets the server reap expired documents; Get also checks expiry
// because the reaper runs only periodically.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoCache connects to uri and prepares the collection.
func NewMongoCache(ctx context.Context, uri, database, collection string) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: mongo ping: %v", ErrNetwork, err)
	}
	c := NewMongoCacheFromClient(client, database, collection)
	c.owned = true
	if err := c.ensureIndex(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

// NewMongoCacheFromClient wraps an existing client. Close does not
// disconnect a client it did not create.
func NewMongoCacheFromClient(client *mongo.Client, database, collection string) *MongoCache {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoCache{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (c *MongoCache) ensureIndex(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := RetryWithBackoff(ctx, func() error {
		err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return classifyMongo(err)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set upserts data under key.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl).UTC()
	}
	opts := options.Replace().SetUpsert(true)
	return RetryWithBackoff(ctx, func() error {
		_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, opts)
		return classifyMongo(err)
	})
}

// Delete removes key.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
		return classifyMongo(err)
	})
}

// Close disconnects the client if this cache created it.
func (c *MongoCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Disconnect(context.Background())
}

func classifyMongo(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*MongoCache)(nil)
