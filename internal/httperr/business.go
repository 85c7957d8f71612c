package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation          Kind = "validation"
	KindConflict            Kind = "conflict"
	KindNotFound            Kind = "not_found"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindExternal            Kind = "external"
)

// BusinessError is a user-facing rejection. Message is what the customer reads.
type BusinessError struct {
	Code    string
	Kind    Kind
	Message string
	Cause   error
}

func (e BusinessError) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Cause.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Cause
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code, Kind: KindValidation}
}

func Validation(code, message string) error {
	return BusinessError{Code: code, Kind: KindValidation, Message: message}
}

func Conflict(code, message string) error {
	return BusinessError{Code: code, Kind: KindConflict, Message: message}
}

func NotFound(code, message string) error {
	return BusinessError{Code: code, Kind: KindNotFound, Message: message}
}

func InsufficientBalance(code, message string) error {
	return BusinessError{Code: code, Kind: KindInsufficientBalance, Message: message}
}

// External marks a failure of the payment gateway or messaging transport.
func External(code, message string, cause error) error {
	return BusinessError{Code: code, Kind: KindExternal, Message: message, Cause: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// KindOf returns "" for errors that are not business errors.
func KindOf(err error) Kind {
	if be, ok := AsBusiness(err); ok {
		return be.Kind
	}
	return ""
}

func MessageOf(err error) string {
	if be, ok := AsBusiness(err); ok && be.Message != "" {
		return be.Message
	}
	return ""
}

// IsUniqueViolation detects unique-index violations from postgres or any
// dialect that translates to gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
