package service

import (
	"context"
	"errors"
	"fmt"
	"roombook/internal/bookings/availability"
	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/status"
	"roombook/internal/bookings/validator"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, input *model.BookingInput) (*model.BookingView, error)
	GetByID(ctx context.Context, id string) (*model.BookingView, error)
	Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.BookingView, error)
	Cancel(ctx context.Context, id string) (*model.BookingView, error)
	List(ctx context.Context, filter model.BookingFilter, pagination model.Pagination) (*model.BookingPage, error)
	AvailableSlots(ctx context.Context, resource model.Resource, day time.Time) ([]model.Slot, error)
	GroupByResource(ctx context.Context) (*model.ResourceGroups, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	clock     status.Clock
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	clock status.Clock,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if clock == nil {
		clock = status.SystemClock
	}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, input *model.BookingInput) (_ *model.BookingView, err error) {
	ctx, span := startSpan(ctx, "bookings.Create", "")
	defer func() { endSpan(span, err) }()

	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		Resource:    input.Resource,
		Start:       normalizeTime(input.Start),
		End:         normalizeTime(input.End),
		RequestedBy: sanitizer.NormalizeRequester(input.RequestedBy),
	}
	if err := s.applyInterval(booking); err != nil {
		return nil, err
	}

	release, err := s.acquireResourceLocks(ctx, booking.Resource)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkConflict(sessCtx, booking.Resource, booking.Start, booking.End, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return persistenceError("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "resource", booking.Resource, "error", err)
		return nil, asPersistence("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"resource", booking.Resource,
		"start", booking.Start,
		"end", booking.End,
	)
	s.publish(ctx, events.Event{Type: events.TypeCreated, Booking: *booking})

	view := status.Annotate(*booking, s.clock())
	return &view, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.BookingView, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(id, "Failed to retrieve booking", err)
	}

	view := status.Annotate(*booking, s.clock())
	return &view, nil
}

func (s *bookingService) Update(ctx context.Context, id string, update *model.BookingUpdate) (_ *model.BookingView, err error) {
	ctx, span := startSpan(ctx, "bookings.Update", "")
	defer func() { endSpan(span, err) }()

	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validateUpdate(update); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(id, "Failed to check booking existence", err)
	}
	merged := mergeBookingUpdate(existing, update)
	if err := s.applyInterval(merged); err != nil {
		return nil, err
	}

	release, err := s.acquireResourceLocks(ctx, existing.Resource, merged.Resource)
	if err != nil {
		return nil, err
	}
	defer release()

	var previous *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// re-read under the lock; the record may have moved since
		current, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return mapLookupError(id, "Failed to check booking existence", err)
		}
		if current.Resource != existing.Resource {
			return apperrors.Conflict(bookingserrors.LockedMessage, bookingserrors.ErrLocked)
		}
		previous = current

		merged = mergeBookingUpdate(current, update)
		if err := s.applyInterval(merged); err != nil {
			return err
		}
		if err := s.checkConflict(sessCtx, merged.Resource, merged.Start, merged.End, id); err != nil {
			return err
		}
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			return mapLookupError(id, "Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, asPersistence("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated successfully",
		"id", id,
		"resource", merged.Resource,
		"start", merged.Start,
		"end", merged.End,
	)
	s.publish(ctx, events.Event{Type: events.TypeUpdated, Booking: *merged, Previous: previous})

	view := status.Annotate(*merged, s.clock())
	return &view, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (_ *model.BookingView, err error) {
	ctx, span := startSpan(ctx, "bookings.Cancel", "")
	defer func() { endSpan(span, err) }()

	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var removed *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return mapLookupError(id, "Failed to check booking existence", err)
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return mapLookupError(id, "Failed to delete booking", err)
		}
		removed = existing
		return nil
	})
	if err != nil {
		return nil, asPersistence("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", id, "resource", removed.Resource)
	s.publish(ctx, events.Event{Type: events.TypeCancelled, Booking: *removed})

	view := status.Annotate(*removed, s.clock())
	return &view, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, pagination model.Pagination) (*model.BookingPage, error) {
	if filter.Resource != "" && !filter.Resource.Valid() {
		return nil, apperrors.InvalidInput("Invalid resource: " + string(filter.Resource))
	}

	pagination.Page = config.NormalizePage(pagination.Page)
	pagination.Limit = config.NormalizePaginationLimit(pagination.Limit)

	now := s.clock()
	query := buildQuery(filter, pagination, now)

	var count int64
	var bookings []model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, query)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = persistenceError("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.Find(ctx, query)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"page", pagination.Page,
				"limit", pagination.Limit,
				"error", err,
			)
			errFind = persistenceError("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, errCount
	}
	if errFind != nil {
		return nil, errFind
	}

	return &model.BookingPage{
		Meta: model.PageMeta{Total: count, Page: pagination.Page, Limit: pagination.Limit},
		Data: status.AnnotateAll(bookings, now),
	}, nil
}

func (s *bookingService) AvailableSlots(ctx context.Context, resource model.Resource, day time.Time) (_ []model.Slot, err error) {
	ctx, span := startSpan(ctx, "bookings.AvailableSlots", resource)
	defer func() { endSpan(span, err) }()

	if !resource.Valid() {
		return nil, apperrors.InvalidInput("Invalid resource: " + string(resource))
	}
	if day.IsZero() {
		return nil, apperrors.InvalidInput("Date is required")
	}

	dayStart, dayEnd := availability.DayWindow(day)
	bookings, err := s.repo.FindIntersecting(ctx, resource, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability", "resource", resource, "error", err)
		return nil, persistenceError("Failed to retrieve bookings", err)
	}

	slots := availability.FreeSlots(dayStart, dayEnd, bookings, model.Buffer)
	s.cfg.Log.Debug("Availability computed",
		"resource", resource,
		"day", dayStart.Format(time.DateOnly),
		"bookings", len(bookings),
		"slots", len(slots),
	)
	return slots, nil
}

func (s *bookingService) GroupByResource(ctx context.Context) (*model.ResourceGroups, error) {
	bookings, err := s.repo.Find(ctx, repository.Query{SortBy: "start", SortOrder: model.SortAsc})
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings for grouping", "error", err)
		return nil, persistenceError("Failed to retrieve bookings", err)
	}

	now := s.clock()
	groups := model.NewResourceGroups()
	for _, b := range bookings {
		groups.Add(status.Annotate(b, now))
	}
	return groups, nil
}

// --- Helpers ---

func (s *bookingService) validateInput(input *model.BookingInput) error {
	if input == nil {
		return apperrors.Validation("Booking payload is required", nil)
	}
	if err := s.validator.ValidateInput(input); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError("Booking validation failed", err)
	}
	return nil
}

func (s *bookingService) validateUpdate(update *model.BookingUpdate) error {
	if update == nil {
		return apperrors.Validation("Update payload is required", nil)
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "error", err)
		return validationError("Invalid update input", err)
	}
	return nil
}

// applyInterval checks b's interval and stores the derived duration.
func (s *bookingService) applyInterval(b *model.Booking) error {
	minutes, err := validator.ValidateInterval(b.Start, b.End)
	if err != nil {
		var intervalErr *validator.IntervalError
		if errors.As(err, &intervalErr) {
			return apperrors.InvalidInterval(intervalErr.Reason, err)
		}
		return apperrors.InvalidInterval(err.Error(), err)
	}
	b.DurationMinutes = minutes
	return nil
}

func (s *bookingService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", event.Type,
			"id", event.Booking.ID,
			"error", err,
		)
	}
}

func mergeBookingUpdate(existing *model.Booking, update *model.BookingUpdate) *model.Booking {
	merged := *existing

	if update.Resource != nil {
		merged.Resource = *update.Resource
	}
	if update.Start != nil {
		merged.Start = normalizeTime(*update.Start)
	}
	if update.End != nil {
		merged.End = normalizeTime(*update.End)
	}
	if update.RequestedBy != nil {
		merged.RequestedBy = sanitizer.NormalizeRequester(*update.RequestedBy)
	}

	return &merged
}

// normalizeTime drops precision the store cannot keep, so a booking reads
// back exactly as it was checked.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func buildQuery(filter model.BookingFilter, pagination model.Pagination, now time.Time) repository.Query {
	query := repository.Query{
		Resource: filter.Resource,
		Skip:     pagination.Skip(),
		Limit:    pagination.Take(),
	}

	if filter.SearchTerm != "" {
		query.RequesterPattern = sanitizer.SearchPattern(filter.SearchTerm)
	}
	if filter.Date != nil {
		dayStart, dayEnd := availability.DayWindow(*filter.Date)
		query.StartFrom = &dayStart
		query.StartTo = &dayEnd
	}
	if filter.Status != "" {
		query.Bounds = status.TimeBounds(filter.Status, now)
	}

	query.SortBy, query.SortOrder = sortFor(filter.Status, pagination)
	return query
}

// sortFor picks the list order: an explicit field wins, past bookings
// default to most recently ended first, everything else to earliest start.
func sortFor(bucket model.BookingStatus, pagination model.Pagination) (string, model.SortOrder) {
	field, order := "start", model.SortAsc
	if bucket == model.StatusPast {
		field, order = "end", model.SortDesc
	}
	if pagination.SortBy != "" {
		field, order = pagination.SortBy, model.SortAsc
	}
	if pagination.SortOrder != "" {
		order = pagination.SortOrder
	}
	return field, order
}

func validationError(message string, err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func persistenceError(message string, err error) *apperrors.AppError {
	return apperrors.Internal(message, fmt.Errorf("%w: %w", bookingserrors.ErrPersistence, err))
}

// asPersistence passes classified errors through and wraps anything else,
// e.g. a transaction commit failure. A write conflict that outlasted the
// transaction retries is reported like a held lock.
func asPersistence(message string, err error) error {
	if mongotx.IsTransient(err) {
		return apperrors.Conflict(bookingserrors.LockedMessage, fmt.Errorf("%w: %w", bookingserrors.ErrLocked, err))
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return persistenceError(message, err)
}

// mapLookupError treats an id the store cannot parse as absent: ids are
// opaque to callers.
func mapLookupError(id, message string, err error) error {
	if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("Booking", id, err)
	}
	return persistenceError(message, err)
}
