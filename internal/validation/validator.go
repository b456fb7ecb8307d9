// Package validation checks inbound query parameters with go-playground/validator before any
// cache or upstream work happens.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is a single field that failed validation.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the request parameter name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

func (e *ValidationError) Tag() string {
	return e.tag
}

func (e *ValidationError) Param() string {
	return e.param
}

func (e *ValidationError) Value() interface{} {
	return e.value
}

func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError collects every field that failed validation, in struct order.
type RequestValidationError struct {
	errors []ValidationError
}

func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// First returns the first failing field, which is what gets reported to the caller.
func (ve *RequestValidationError) First() *ValidationError {
	if len(ve.errors) == 0 {
		return nil
	}
	return &ve.errors[0]
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	var messages []string
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}

	return strings.Join(messages, "; ")
}

// NewFieldError builds a RequestValidationError for a parameter that could not be parsed at all.
func NewFieldError(field, tag string, value interface{}, message string) *RequestValidationError {
	return &RequestValidationError{
		errors: []ValidationError{{
			field:   field,
			tag:     tag,
			value:   value,
			message: message,
		}},
	}
}

// GetValidator returns the singleton validator instance. Field names in errors are taken from
// the query tag, then the json tag, so messages name the parameter the caller actually sent.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tagName := range []string{"query", "json"} {
				name, _, _ := strings.Cut(field.Tag.Get(tagName), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})

		mustRegister("metric", func(fl validator.FieldLevel) bool {
			return isKnown(Metrics, fl.Field().String())
		})
		mustRegister("breakdown_property", func(fl validator.FieldLevel) bool {
			return isKnown(BreakdownProperties, fl.Field().String())
		})
		mustRegister("time_dimension", func(fl validator.FieldLevel) bool {
			return isKnown(TimeDimensions, fl.Field().String())
		})
		mustRegister("daterange", func(fl validator.FieldLevel) bool {
			_, _, err := ParseDateRange(fl.Field().String())
			return err == nil
		})
		mustRegister("json_array", func(fl validator.FieldLevel) bool {
			raw := strings.TrimSpace(fl.Field().String())
			return strings.HasPrefix(raw, "[") && json.Valid([]byte(raw))
		})
	})

	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
	}
}

func isKnown(allowed []string, value string) bool {
	for _, candidate := range allowed {
		if candidate == value {
			return true
		}
	}
	return false
}

// ParseDateRange splits a custom period date of the form "YYYY-MM-DD,YYYY-MM-DD".
func ParseDateRange(value string) (from, to string, err error) {
	first, second, found := strings.Cut(value, ",")
	if !found {
		return "", "", errors.New("expected two dates separated by a comma")
	}

	from, to = strings.TrimSpace(first), strings.TrimSpace(second)

	fromDate, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return "", "", fmt.Errorf("invalid start date: %w", err)
	}

	toDate, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return "", "", fmt.Errorf("invalid end date: %w", err)
	}

	if toDate.Before(fromDate) {
		return "", "", errors.New("end date is before start date")
	}

	return from, to, nil
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
func ValidateStruct(s interface{}) *RequestValidationError {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{
				{
					field:   "unknown",
					tag:     "unknown",
					message: err.Error(),
				},
			},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   baseField(fieldErr.Field()),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// baseField drops the element index validator appends to slice fields, metrics[2] -> metrics.
func baseField(field string) string {
	name, _, _ := strings.Cut(field, "[")
	return name
}

var errorMessageTemplates = map[string]string{
	"required":   "%s is required",
	"daterange":  "%s must be two YYYY-MM-DD dates separated by a comma, start before end",
	"json_array": "%s must be a JSON array",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := baseField(fe.Field())
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	switch tag {
	case "required_if":
		// param is "<Field> <value>"
		other, value, _ := strings.Cut(param, " ")
		return fmt.Sprintf("%s is required when %s is %s", field, strings.ToLower(other), value)
	case "metric":
		return fmt.Sprintf("%s contains unsupported metric %q, supported metrics are: %s", field, fe.Value(), strings.Join(Metrics, ", "))
	case "breakdown_property":
		return fmt.Sprintf("%s %q is not supported, must be one of: %s", field, fe.Value(), strings.Join(BreakdownProperties, " "))
	case "time_dimension":
		return fmt.Sprintf("%s %q is not supported, must be one of: %s", field, fe.Value(), strings.Join(TimeDimensions, " "))
	}

	return translateMinMax(fe, field, tag, param)
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	kind := fe.Kind()
	isString := kind == reflect.String
	isList := kind == reflect.Slice || kind == reflect.Array

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		if isList {
			return fmt.Sprintf("%s must contain at least %s value(s)", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		if isList {
			return fmt.Sprintf("%s must contain at most %s value(s)", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
