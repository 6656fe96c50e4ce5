package errors

import "net/http"

const (
	CodeInternal         = "internal_error"
	CodeInvalidJSON      = "invalid_json"
	CodeUnsupportedMedia = "unsupported_media_type"
	CodeInvalidPhase     = "invalid_phase"
	CodeInvalidTheme     = "invalid_theme"
	CodeInvalidDate      = "invalid_date"
	CodeNotToggleable    = "not_toggleable"
	CodeTimerRunning     = "timer_running"
	CodePanelNotFound    = "panel_not_found"
	CodeRecordNotFound   = "record_not_found"
	CodeForbidden        = "forbidden"
)

type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal error"
	}
	return New(http.StatusInternalServerError, CodeInternal, message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

func Forbidden(message string) *APIError {
	if message == "" {
		message = "forbidden"
	}
	return New(http.StatusForbidden, CodeForbidden, message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

// Conflict reports a request that cannot apply to the current state;
// details usually carry that state so the caller can resync.
func Conflict(code, message string, details interface{}) *APIError {
	err := New(http.StatusConflict, code, message)
	err.Details = details
	return err
}
