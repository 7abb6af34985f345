package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName     = "bookings"
	LockCollectionName = "booking_locks"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
	// FindOverlapping returns the first booking on resource with
	// start < windowEnd and end > windowStart, skipping excludeID, or nil.
	FindOverlapping(ctx context.Context, resource model.Resource, windowStart, windowEnd time.Time, excludeID string) (*model.Booking, error)
	// FindIntersecting returns bookings on resource whose interval touches
	// [from, to], ordered by start.
	FindIntersecting(ctx context.Context, resource model.Resource, from, to time.Time) ([]model.Booking, error)
	Find(ctx context.Context, query Query) ([]model.Booking, error)
	Count(ctx context.Context, query Query) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo, cfg.WriteQueryTimeout),
	}
}

// withTimeout bounds ctx by timeout unless it is a transaction's
// SessionContext, which cannot be wrapped without leaving the transaction.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return oid, nil
}

// bookingDocument is the stored shape; the _id is an ObjectID while the
// model exposes it as a hex string.
type bookingDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Resource        model.Resource     `bson:"resource"`
	Start           time.Time          `bson:"start"`
	End             time.Time          `bson:"end"`
	DurationMinutes float64            `bson:"duration_minutes"`
	RequestedBy     string             `bson:"requested_by"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (d bookingDocument) toModel() model.Booking {
	return model.Booking{
		ID:              d.ID.Hex(),
		Resource:        d.Resource,
		Start:           d.Start,
		End:             d.End,
		DurationMinutes: d.DurationMinutes,
		RequestedBy:     d.RequestedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteQueryTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	doc := bookingDocument{
		Resource:        booking.Resource,
		Start:           booking.Start,
		End:             booking.End,
		DurationMinutes: booking.DurationMinutes,
		RequestedBy:     booking.RequestedBy,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadQueryTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc bookingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	booking := doc.toModel()
	return &booking, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteQueryTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"resource":         booking.Resource,
			"start":            booking.Start,
			"end":              booking.End,
			"duration_minutes": booking.DurationMinutes,
			"requested_by":     booking.RequestedBy,
			"updated_at":       booking.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteQueryTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) FindOverlapping(
	ctx context.Context,
	resource model.Resource,
	windowStart, windowEnd time.Time,
	excludeID string,
) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadQueryTimeout)
	defer cancel()

	filter := bson.M{
		"resource": resource,
		"start":    bson.M{"$lt": windowEnd},
		"end":      bson.M{"$gt": windowStart},
	}
	if excludeID != "" {
		oid, err := objectID(excludeID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	var doc bookingDocument
	err := r.collection.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "start", Value: 1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	booking := doc.toModel()
	return &booking, nil
}

func (r *mongoBookingRepository) FindIntersecting(ctx context.Context, resource model.Resource, from, to time.Time) ([]model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadQueryTimeout)
	defer cancel()

	filter := bson.M{
		"resource": resource,
		"start":    bson.M{"$lte": to},
		"end":      bson.M{"$gte": from},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
}

func (r *mongoBookingRepository) Find(ctx context.Context, query Query) ([]model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadQueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(query.sort())
	if query.Skip > 0 {
		opts.SetSkip(query.Skip)
	}
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}
	return r.find(ctx, query.filter(), opts)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]model.Booking, 0, len(docs))
	for _, d := range docs {
		bookings = append(bookings, d.toModel())
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context, query Query) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadQueryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, query.filter())
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
