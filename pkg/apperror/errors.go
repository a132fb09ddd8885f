package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"sui-transfer-gateway/internal/core/domain"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Transfer validation (VAL) ----

func ErrNotConnected() *AppError {
	return New("VAL_001", domain.ErrNotConnected.Reason(), http.StatusUnauthorized)
}

func ErrMissingRecipient() *AppError {
	return New("VAL_002", domain.ErrMissingRecipient.Reason(), http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_003", domain.ErrInvalidAmount.Reason(), http.StatusBadRequest)
}

// ---- Transfer submission (TX) ----

func ErrTransportUnavailable(message string) *AppError {
	return New("TX_001", message, http.StatusServiceUnavailable)
}

func ErrApplicationRejected(message string) *AppError {
	return New("TX_002", message, http.StatusUnprocessableEntity)
}

func ErrSubmissionUnknown(message string) *AppError {
	return New("TX_003", message, http.StatusBadGateway)
}

func ErrTransferInProgress() *AppError {
	return New("TX_004", "A transfer from this account is already in progress", http.StatusConflict)
}

// ---- Balance (BAL) ----

func ErrBalanceUnavailable(err error) *AppError {
	return Wrap("BAL_001", "Balance unavailable", http.StatusServiceUnavailable, err)
}

// ---- Session (SES) ----

func ErrInvalidSession() *AppError {
	return New("SES_001", "Invalid or expired session", http.StatusUnauthorized)
}

func ErrUnknownAccount() *AppError {
	return New("SES_002", "Account is not held by this wallet", http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-shape error (malformed JSON and the like).
func Validation(message string) *AppError {
	return New("SYS_002", message, http.StatusBadRequest)
}

// FromValidation maps a pipeline validation failure to its AppError.
func FromValidation(f domain.ValidationFailure) *AppError {
	switch f {
	case domain.ErrNotConnected:
		return ErrNotConnected()
	case domain.ErrMissingRecipient:
		return ErrMissingRecipient()
	default:
		return ErrInvalidAmount()
	}
}

// FromOutcome maps a failed transfer outcome to its AppError.
// Successful outcomes return nil.
func FromOutcome(o domain.TransferOutcome) *AppError {
	if o.IsSuccess() {
		return nil
	}
	switch o.Kind {
	case domain.FailureTransportUnavailable:
		return ErrTransportUnavailable(o.Message)
	case domain.FailureApplicationRejected:
		return ErrApplicationRejected(o.Message)
	default:
		return ErrSubmissionUnknown(o.Message)
	}
}

// From converts any error into an AppError, unwrapping validation
// failures and existing AppErrors.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var vf domain.ValidationFailure
	if errors.As(err, &vf) {
		return FromValidation(vf)
	}
	return InternalError(err)
}
