package service

import (
	"context"
	bookingserrors "roombook/internal/bookings/errors"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"slices"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// acquireResourceLocks takes the advisory lock of every distinct resource,
// in name order so two writers never wait on each other crosswise. On
// failure the locks already taken are released. The returned func releases
// everything and is safe to defer.
func (s *bookingService) acquireResourceLocks(ctx context.Context, resources ...model.Resource) (func(), error) {
	resources = slices.Clone(resources)
	slices.Sort(resources)
	resources = slices.Compact(resources)

	owner := uuid.NewString()
	held := make([]string, 0, len(resources))

	release := func() {
		// the request may already be cancelled; the locks still have to go
		releaseCtx := context.WithoutCancel(ctx)
		for _, lockID := range held {
			if err := s.lockRepo.Release(releaseCtx, lockID, owner); err != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
			}
		}
	}

	for _, r := range resources {
		lock := &model.BookingLock{
			ID:        model.LockIDFor(r),
			Resource:  r,
			Owner:     owner,
			ExpiresAt: s.clock().UTC().Add(s.cfg.BookingLockTTL),
		}
		if err := s.lockRepo.Acquire(ctx, lock); err != nil {
			release()
			if mongo.IsDuplicateKeyError(err) {
				s.cfg.Log.Info("Resource is locked by another request", "resource", r)
				return nil, apperrors.Conflict(bookingserrors.LockedMessage, bookingserrors.ErrLocked)
			}
			return nil, persistenceError("Failed to acquire booking lock", err)
		}
		held = append(held, lock.ID)
	}

	return release, nil
}
