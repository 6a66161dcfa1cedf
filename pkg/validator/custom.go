package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("pathsegment", validatePathSegment)
}

// Task and location identifiers end up as directory names under the upload
// root, so anything that could escape or terminate a path component is
// rejected.
func validatePathSegment(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, "/\\\x00") {
		return false
	}
	return true
}
