package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"

	// Randomness errors
	ErrCodeRandomnessTimeout ErrorCode = "RANDOMNESS_TIMEOUT"
	ErrCodeOracleUnavailable ErrorCode = "ORACLE_UNAVAILABLE"

	// Session errors
	ErrCodeSessionNotFound        ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSeedVerificationFailed ErrorCode = "SEED_VERIFICATION_FAILED"

	// Attestation errors
	ErrCodeSignatureVerificationFailed ErrorCode = "SIGNATURE_VERIFICATION_FAILED"
	ErrCodeInvalidWallet               ErrorCode = "INVALID_WALLET"

	// Raffle errors
	ErrCodeInvalidDrawInput   ErrorCode = "INVALID_DRAW_INPUT"
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	ErrCodeRaffleNotFound     ErrorCode = "RAFFLE_NOT_FOUND"
	ErrCodeProofNotFound      ErrorCode = "PROOF_NOT_FOUND"

	// Storage errors
	ErrCodeStorageError      ErrorCode = "STORAGE_ERROR"
	ErrCodeConnectionFailed  ErrorCode = "CONNECTION_FAILED"
	ErrCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"

	// External API errors
	ErrCodeTelegramAPI ErrorCode = "TELEGRAM_API_ERROR"
	ErrCodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
)

// AppError is a typed application error.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Stack     []string               `json:"stack,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" class error.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeSessionNotFound ||
		e.Code == ErrCodeRaffleNotFound ||
		e.Code == ErrCodeProofNotFound
}

// IsValidation reports whether the error is a validation class error.
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation ||
		e.Code == ErrCodeInvalidWallet ||
		e.Code == ErrCodeInvalidDrawInput
}

// IsIntegrity reports whether the error indicates corrupted or inconsistent
// data. Integrity errors must block publication of a raffle result.
func (e *AppError) IsIntegrity() bool {
	return e.Code == ErrCodeSeedVerificationFailed ||
		e.Code == ErrCodeInvariantViolation
}

// IsRecoverable reports whether the error has a documented fallback path.
func (e *AppError) IsRecoverable() bool {
	return e.Code == ErrCodeRandomnessTimeout || e.Code == ErrCodeOracleUnavailable
}

// IsInternal reports whether the error is an internal failure.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeStorageError ||
		e.Code == ErrCodeTelegramAPI
}

// WithDetail attaches a detail value to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewRaffleNotFoundError creates a "raffle not found" error for a draw date.
func NewRaffleNotFoundError(day string) *AppError {
	return New(ErrCodeRaffleNotFound, fmt.Sprintf("Raffle result not found: %s", day)).
		WithDetail("day", day)
}

// NewInvariantViolationError creates a post-draw consistency error.
func NewInvariantViolationError(check, detail string) *AppError {
	return New(ErrCodeInvariantViolation, fmt.Sprintf("Invariant violated (%s): %s", check, detail)).
		WithDetail("check", check)
}
