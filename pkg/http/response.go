package http

import (
	"encoding/json"
	"net/http"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type PaginatedResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Meta    model.PageMeta `json:"meta"`
	Data    any            `json:"data"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps any error to the error envelope. Errors that are not
// *AppError become a generic 500 and their text never reaches the client.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	status := appErr.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return WriteJSON(w, status, appErr.Response())
}

func WriteSuccess(w http.ResponseWriter, message string, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: message, Data: data})
}

func WriteCreated(w http.ResponseWriter, message string, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Success: true, Message: message, Data: data})
}

func WritePaginated(w http.ResponseWriter, message string, page *model.BookingPage) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Success: true,
		Message: message,
		Meta:    page.Meta,
		Data:    page.Data,
	})
}
