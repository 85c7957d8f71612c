package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsEmail checks the address shape only; no DNS lookups happen here.
func IsEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return validate.Var(value, "required,email") == nil
}

func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
