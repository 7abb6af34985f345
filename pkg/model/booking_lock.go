package model

import "time"

// BookingLock is an advisory lock document serializing writes on a single resource.
// The _id is derived from the resource, so a second writer hits a duplicate key.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Resource  Resource  `bson:"resource" json:"resource"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func LockIDFor(r Resource) string {
	return "booking_lock_" + string(r)
}
