package service

import (
	"context"
	"fmt"
	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockBookingRepository struct {
	createFunc           func(ctx context.Context, booking *model.Booking) error
	findByIDFunc         func(ctx context.Context, id string) (*model.Booking, error)
	updateFunc           func(ctx context.Context, id string, booking *model.Booking) error
	deleteFunc           func(ctx context.Context, id string) error
	findOverlappingFunc  func(ctx context.Context, resource model.Resource, windowStart, windowEnd time.Time, excludeID string) (*model.Booking, error)
	findIntersectingFunc func(ctx context.Context, resource model.Resource, from, to time.Time) ([]model.Booking, error)
	findFunc             func(ctx context.Context, query repository.Query) ([]model.Booking, error)
	countFunc            func(ctx context.Context, query repository.Query) (int64, error)
	transactionFunc      func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, resource model.Resource, windowStart, windowEnd time.Time, excludeID string) (*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, resource, windowStart, windowEnd, excludeID)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindIntersecting(ctx context.Context, resource model.Resource, from, to time.Time) ([]model.Booking, error) {
	if m.findIntersectingFunc != nil {
		return m.findIntersectingFunc(ctx, resource, from, to)
	}
	return []model.Booking{}, nil
}

func (m *mockBookingRepository) Find(ctx context.Context, query repository.Query) ([]model.Booking, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, query)
	}
	return []model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context, query repository.Query) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, query)
	}
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.transactionFunc != nil {
		return m.transactionFunc(ctx, fn)
	}
	return fn(mongo.NewSessionContext(ctx, nil))
}

// memoryStore backs a mockBookingRepository with a map so lifecycle tests
// can create, overlap, update and cancel against real state.
type memoryStore struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
	nextID   int
}

func newMemoryRepository(seed ...model.Booking) (*mockBookingRepository, *memoryStore) {
	store := &memoryStore{bookings: map[string]model.Booking{}}
	for _, b := range seed {
		store.bookings[b.ID] = b
	}

	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			store.mu.Lock()
			defer store.mu.Unlock()
			store.nextID++
			booking.ID = fmt.Sprintf("%024x", store.nextID)
			store.bookings[booking.ID] = *booking
			return nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			store.mu.Lock()
			defer store.mu.Unlock()
			b, ok := store.bookings[id]
			if !ok {
				return nil, bookingserrors.ErrNotFound
			}
			return &b, nil
		},
		updateFunc: func(ctx context.Context, id string, booking *model.Booking) error {
			store.mu.Lock()
			defer store.mu.Unlock()
			if _, ok := store.bookings[id]; !ok {
				return bookingserrors.ErrNotFound
			}
			store.bookings[id] = *booking
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			store.mu.Lock()
			defer store.mu.Unlock()
			if _, ok := store.bookings[id]; !ok {
				return bookingserrors.ErrNotFound
			}
			delete(store.bookings, id)
			return nil
		},
		findOverlappingFunc: func(ctx context.Context, resource model.Resource, windowStart, windowEnd time.Time, excludeID string) (*model.Booking, error) {
			for _, b := range store.sorted() {
				if b.Resource != resource || b.ID == excludeID {
					continue
				}
				if b.Start.Before(windowEnd) && b.End.After(windowStart) {
					return &b, nil
				}
			}
			return nil, nil
		},
		findIntersectingFunc: func(ctx context.Context, resource model.Resource, from, to time.Time) ([]model.Booking, error) {
			var out []model.Booking
			for _, b := range store.sorted() {
				if b.Resource == resource && !b.Start.After(to) && !b.End.Before(from) {
					out = append(out, b)
				}
			}
			return out, nil
		},
		findFunc: func(ctx context.Context, query repository.Query) ([]model.Booking, error) {
			return store.sorted(), nil
		},
		countFunc: func(ctx context.Context, query repository.Query) (int64, error) {
			store.mu.Lock()
			defer store.mu.Unlock()
			return int64(len(store.bookings)), nil
		},
	}
	return repo, store
}

func (s *memoryStore) sorted() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

type mockLockRepository struct {
	mu          sync.Mutex
	acquireFunc func(ctx context.Context, lock *model.BookingLock) error
	acquired    []string
	released    []string
}

func (m *mockLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	if m.acquireFunc != nil {
		if err := m.acquireFunc(ctx, lock); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquired = append(m.acquired, lock.ID)
	return nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, lockID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Log:               logger.Discard(),
		BookingLockTTL:    10 * time.Second,
		ReadQueryTimeout:  time.Second,
		WriteQueryTimeout: time.Second,
	}
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

type fixture struct {
	svc       *bookingService
	repo      *mockBookingRepository
	store     *memoryStore
	locks     *mockLockRepository
	publisher *recordingPublisher
}

func newFixture(now time.Time, seed ...model.Booking) *fixture {
	cfg := testConfig()
	repo, store := newMemoryRepository(seed...)
	locks := &mockLockRepository{}
	pub := &recordingPublisher{}

	svc := NewBookingService(repo, locks, validator.NewBookingValidator(cfg.Log), pub, fixedClock(now), cfg).(*bookingService)
	return &fixture{svc: svc, repo: repo, store: store, locks: locks, publisher: pub}
}
