package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class surfaced to the conversation layer.
type ErrorCode string

const (
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeCache    ErrorCode = "CACHE_ERROR"

	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeAccountNotFound ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountExists   ErrorCode = "ACCOUNT_EXISTS"

	ErrCodeOrderNotFound ErrorCode = "ORDER_NOT_FOUND"
	ErrCodeOrderConsumed ErrorCode = "ORDER_ALREADY_CONSUMED"

	ErrCodeQuoteUnavailable    ErrorCode = "QUOTE_UNAVAILABLE"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeExecutionFailed     ErrorCode = "EXECUTION_FAILED"
	ErrCodeInvalidAmount       ErrorCode = "INVALID_AMOUNT"

	ErrCodeWatchExists   ErrorCode = "WATCH_EXISTS"
	ErrCodeWatchNotFound ErrorCode = "WATCH_NOT_FOUND"

	ErrCodePromptPending ErrorCode = "PROMPT_PENDING"

	ErrCodeTelegramAPI ErrorCode = "TELEGRAM_API_ERROR"
)

// AppError is the typed error every collaborator failure is converted to
// before it reaches the conversation router.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
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

// IsNotFound reports whether the error is a local lookup miss.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeUserNotFound ||
		e.Code == ErrCodeAccountNotFound ||
		e.Code == ErrCodeOrderNotFound ||
		e.Code == ErrCodeWatchNotFound
}

// IsInternal reports whether the error must not be surfaced verbatim to users.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeCache ||
		e.Code == ErrCodeTelegramAPI
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// AsAppError unwraps err to an AppError if one is in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func NewUserNotFoundError(userID int64) *AppError {
	return Newf(ErrCodeUserNotFound, "User not found: %d", userID)
}

func NewAccountNotFoundError(address string) *AppError {
	return Newf(ErrCodeAccountNotFound, "Account not found: %s", address)
}

func NewOrderNotFoundError(orderID string) *AppError {
	return Newf(ErrCodeOrderNotFound, "Order not found or expired: %s", orderID)
}

func NewOrderConsumedError(orderID string) *AppError {
	return Newf(ErrCodeOrderConsumed, "Order already used: %s", orderID)
}

func NewQuoteUnavailableError(token string) *AppError {
	return Newf(ErrCodeQuoteUnavailable, "No viable route for token %s", token)
}

func NewInsufficientBalanceError(need, have float64) *AppError {
	return Newf(ErrCodeInsufficientBalance, "Insufficient balance: need %g, have %g", need, have)
}

func NewExecutionFailedError(err error) *AppError {
	return Wrap(err, ErrCodeExecutionFailed, "Transaction execution failed")
}

func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCache, fmt.Sprintf("Store operation failed: %s", operation))
}

func NewTelegramAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTelegramAPI, fmt.Sprintf("Telegram API operation failed: %s", operation))
}
