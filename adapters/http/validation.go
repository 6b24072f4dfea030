package http

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/dev-connector/pkg/apperror"
)

var fieldMessages = map[string]string{
	"name":         "Name is required",
	"email":        "Please include a valid email",
	"password":     "Please enter a password with 6 or more characters",
	"status":       "Status is required",
	"skills":       "Skills is required",
	"title":        "Title is required",
	"company":      "Company is required",
	"from":         "From date is required",
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldofstudy": "Field of study is required",
}

var registerOnce sync.Once

// useJSONFieldNames makes validator report fields by their JSON name.
func useJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindError turns a ShouldBindJSON failure into a 400 with one entry per
// offending field.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.NewValidation(apperror.FieldError{Msg: "Invalid request body", Location: "body"})
	}

	fields := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		fields = append(fields, apperror.FieldError{Msg: msg, Param: fe.Field(), Location: "body"})
	}
	return apperror.NewValidation(fields...)
}
