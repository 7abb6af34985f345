package mongo

import (
	"roombook/internal/bookings/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections(t *testing.T) {
	defs := Collections()
	require.Len(t, defs, 2)

	assert.Equal(t, repository.CollectionName, defs[0].Name)
	assert.Equal(t, repository.LockCollectionName, defs[1].Name)
	for _, def := range defs {
		assert.NotEmpty(t, def.Indexes, def.Name)
		assert.Contains(t, def.Validator, "$jsonSchema", def.Name)
	}
}

func TestBookingLocksExpire(t *testing.T) {
	require.Len(t, BookingLocksIndexes, 1)
	idx := BookingLocksIndexes[0]

	assert.Equal(t, bson.D{{Key: "expires_at", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *idx.Options.ExpireAfterSeconds)
}

func TestBookingsOverlapIndexLeadsWithResource(t *testing.T) {
	keys, ok := BookingsIndexes[0].Keys.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "resource", keys[0].Key)
	assert.Equal(t, "start", keys[1].Key)
}
