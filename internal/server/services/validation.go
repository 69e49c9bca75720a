package services

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field errors are keyed by the json name clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("pdf_file", func(fl validator.FieldLevel) bool {
		return strings.EqualFold(path.Ext(fl.Field().String()), ".pdf")
	}); err != nil {
		panic(err)
	}

	return v
}

var tagMessages = map[string]string{
	"required":      "is required",
	"oneof":         "is not a known genre",
	"http_url":      "must be an absolute http(s) URL",
	"pdf_file":      "must be a .pdf file",
	"gt":            "must be positive",
	"ltefield":      "exceeds the maximum PDF size",
	"excluded_with": "cannot be combined with an uploaded document",
	"startswith":    "is not a book document key",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	if fe.Tag() == "eq" {
		return "must be " + fe.Param()
	}
	return "is invalid"
}

// validateStruct runs the tag rules on v and reports failures as a
// *ValidationError keyed by json field name.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation error: %w", err)
	}

	fe := fieldErrors{}
	for _, e := range verrs {
		fe.add(e.Field(), fieldMessage(e))
	}
	return fe.err()
}
