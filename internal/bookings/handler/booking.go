package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"roombook/internal/bookings/service"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	MsgCreated   = "Booking confirmed successfully."
	MsgRetrieved = "Booking retrieved successfully."
	MsgListed    = "Bookings retrieved successfully."
	MsgSlots     = "Available slots retrieved successfully."
	MsgGrouped   = "Bookings grouped by resource successfully."
	MsgUpdated   = "Booking updated successfully."
	MsgCancelled = "Booking cancelled successfully."
)

type BookingHandler struct {
	service  service.BookingService
	location *time.Location
	log      *logger.Logger
}

// NewBookingHandler builds the HTTP boundary. loc is used to read date-only
// query parameters.
func NewBookingHandler(service service.BookingService, loc *time.Location, log *logger.Logger) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{
		service:  service,
		location: loc,
		log:      log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Create", invalidBody(err))
		return
	}

	booking, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, MsgCreated, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, MsgRetrieved, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pagination, err := httputil.ExtractPagination(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := h.extractFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	page, err := h.service.List(r.Context(), filter, pagination)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, MsgListed, page); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) AvailableSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	resourceStr := strings.TrimSpace(query.Get("resource"))
	dateStr := strings.TrimSpace(query.Get("date"))
	if resourceStr == "" || dateStr == "" {
		h.writeError(w, "AvailableSlots", apperrors.InvalidInput("Both 'resource' and 'date' query parameters are required"))
		return
	}

	resource, err := model.ParseResource(resourceStr)
	if err != nil {
		h.writeError(w, "AvailableSlots", apperrors.InvalidInput(err.Error()))
		return
	}
	day, err := httputil.ParseDate(dateStr, h.location)
	if err != nil {
		h.writeError(w, "AvailableSlots", err)
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), resource, day)
	if err != nil {
		h.writeError(w, "AvailableSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, MsgSlots, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "AvailableSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GroupByResource(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	groups, err := h.service.GroupByResource(r.Context())
	if err != nil {
		h.writeError(w, "GroupByResource", err)
		return
	}

	if err := httputil.WriteSuccess(w, MsgGrouped, groups); err != nil {
		h.log.Error("failed to write success response", "handler", "GroupByResource", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Update", invalidBody(err))
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, MsgUpdated, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, MsgCancelled, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/booking", h.Create)
	router.GET("/booking", h.List)
	router.GET("/booking/available-slots", h.AvailableSlots)
	router.GET("/booking/groupBy", h.GroupByResource)
	router.GET("/booking/id/:id", h.GetByID)
	router.PATCH("/booking/:id", h.Update)
	router.DELETE("/booking/:id", h.Cancel)
}

func (h *BookingHandler) extractFilter(r *http.Request) (model.BookingFilter, error) {
	query := r.URL.Query()
	filter := model.BookingFilter{
		SearchTerm: strings.TrimSpace(query.Get("searchTerm")),
	}

	if s := strings.TrimSpace(query.Get("resource")); s != "" {
		resource, err := model.ParseResource(s)
		if err != nil {
			return model.BookingFilter{}, apperrors.InvalidInput(err.Error())
		}
		filter.Resource = resource
	}

	if s := strings.TrimSpace(query.Get("date")); s != "" {
		day, err := httputil.ParseDate(s, h.location)
		if err != nil {
			return model.BookingFilter{}, err
		}
		filter.Date = &day
	}

	if s := strings.TrimSpace(query.Get("status")); s != "" {
		bucket, err := model.ParseBookingStatus(s)
		if err != nil {
			return model.BookingFilter{}, apperrors.InvalidInput(err.Error())
		}
		filter.Status = bucket
	}

	return filter, nil
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func invalidBody(err error) error {
	return apperrors.InvalidInput("Invalid request body: " + err.Error())
}
