package user

import (
	"github.com/go-playground/validator/v10"
)

var (
	roleTag  = "role"
	roleText = "unknown role"
)

// roleValidation only allows members of the Role enum.
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}
