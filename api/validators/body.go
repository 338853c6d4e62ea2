package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeOptions adjusts how a request body is decoded.
type DecodeOptions struct {
	// AllowUnknownFields accepts payload keys that dest does not declare.
	AllowUnknownFields bool
	// ValidationMessage replaces the generic message for empty bodies and failed
	// struct validation. Field details are still attached.
	ValidationMessage string
}

// DecodeJSONBody strictly decodes and validates the request body into dest.
func DecodeJSONBody(r *http.Request, dest any) error {
	return DecodeJSON(r, dest, DecodeOptions{})
}

// DecodeJSON decodes the request body into dest and runs struct validation.
func DecodeJSON(r *http.Request, dest any, opts DecodeOptions) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if !opts.AllowUnknownFields {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) && opts.ValidationMessage != "" {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, opts.ValidationMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err, opts.ValidationMessage)
	}
	return nil
}

func formatValidationErrors(err error, message string) *pkgerrors.Error {
	if message == "" {
		message = "validation failed"
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}
