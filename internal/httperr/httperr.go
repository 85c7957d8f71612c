package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond maps a use-case error to its HTTP representation.
func Respond(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundResponse(c, "not_found", "Registro não encontrado.")
			return
		}
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	Write(c, StatusFor(be.Kind), be.Code, be.Message)
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientBalance:
		return http.StatusPaymentRequired
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NotFoundAs maps a missing row to target and passes every other failure
// through.
func NotFoundAs(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
