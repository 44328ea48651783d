package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/relayvision/visionlog/internal/board"
)

// APIError is an error answered by the server. It unwraps to board.ErrRejected,
// so the board treats it as a definite rejection rather than an unknown outcome.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Code)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return board.ErrRejected
}

// parseError decodes an error body. Bodies that are not ours still count as rejections.
func parseError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := jsoniter.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown_error"
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}

// check turns a resty result into an error. Transport failures pass through
// unchanged so callers can tell them apart from rejections.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return parseError(resp)
	}
	return nil
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the server refused the session.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether the row no longer exists.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}
