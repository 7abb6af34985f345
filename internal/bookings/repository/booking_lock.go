package repository

import (
	"context"
	"fmt"
	"roombook/pkg/config"
	"roombook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingLockRepository stores per-resource advisory locks. The lock _id is
// derived from the resource, so a concurrent Acquire fails with a duplicate
// key error; expired locks are reaped by the TTL index on expires_at.
type BookingLockRepository interface {
	Acquire(ctx context.Context, lock *model.BookingLock) error
	Release(ctx context.Context, lockID, owner string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteQueryTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()
	if lock.ExpiresAt.IsZero() {
		lock.ExpiresAt = lock.CreatedAt.Add(r.cfg.BookingLockTTL)
	}

	// the TTL monitor only runs about once a minute; take over a lock whose
	// holder died instead of waiting for it
	if _, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lt": lock.CreatedAt},
	}); err != nil {
		return fmt.Errorf("failed to clear expired booking lock %s: %w", lock.ID, err)
	}

	// callers check mongo.IsDuplicateKeyError, keep the driver error intact
	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

// Release only removes the lock when owner still holds it.
func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID, owner string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteQueryTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to release booking lock %s: %w", lockID, err)
	}
	return nil
}
