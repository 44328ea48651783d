package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/service"
	"github.com/relayvision/visionlog/internal/validation"
)

// ErrorCode is the machine-readable half of an error body.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "bad_request"
	CodeValidation   ErrorCode = "validation_error"
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeForbidden    ErrorCode = "forbidden"
	CodeNotFound     ErrorCode = "not_found"
	CodeConflict     ErrorCode = "conflict"
	CodeGone         ErrorCode = "gone"
	CodeInternal     ErrorCode = "internal_error"
)

// maxBodyBytes caps JSON request bodies. Media goes through multipart.
const maxBodyBytes = 1 << 20

// APIError is the JSON body of every failed request.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(status int, code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// toAPIError maps service and repository errors onto HTTP statuses.
// Anything unrecognised is an internal error and its message is not exposed.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return newError(http.StatusUnprocessableEntity, CodeValidation, verr.Error())
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return newError(http.StatusUnauthorized, CodeUnauthorized, err.Error())

	case errors.Is(err, service.ErrInvalidCurrentPassword),
		errors.Is(err, service.ErrNotAllied),
		errors.Is(err, service.ErrCheerOwnMission):
		return newError(http.StatusForbidden, CodeForbidden, err.Error())

	case errors.Is(err, service.ErrSelfInvite):
		return newError(http.StatusUnprocessableEntity, CodeValidation, err.Error())

	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyAllied),
		errors.Is(err, service.ErrMissionArchived):
		return newError(http.StatusConflict, CodeConflict, err.Error())

	case errors.Is(err, service.ErrInviteExpired):
		return newError(http.StatusGone, CodeGone, err.Error())

	case errors.Is(err, service.ErrAllyNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, repository.ErrThoughtNotFound),
		errors.Is(err, repository.ErrMissionNotFound),
		errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrVisionNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return newError(http.StatusNotFound, CodeNotFound, err.Error())
	}

	return newError(http.StatusInternalServerError, CodeInternal, "Something went wrong")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// fail logs err and writes its API form.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.WarnContext(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "code", apiErr.Code, "error", err)
	}
	writeJSON(w, apiErr.Status, apiErr)
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return newError(http.StatusBadRequest, CodeBadRequest, "Invalid JSON body")
	}
	return nil
}
