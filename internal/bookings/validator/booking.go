package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return v.Field + ": " + v.Message
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as a field → message map for the error envelope.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

var messages = map[string]func(validator.FieldError) string{
	"required": func(fe validator.FieldError) string { return fe.Field() + " is required" },
	"min": func(fe validator.FieldError) string {
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	},
	"max": func(fe validator.FieldError) string {
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	},
	"resource": func(fe validator.FieldError) string {
		return fe.Field() + " must be one of: " + strings.Join(model.ResourceNames(), ", ")
	},
	"nonempty": func(validator.FieldError) string {
		return "at least one of resource, start, end or requestedBy must be provided"
	},
}

// BookingValidator checks payload shape. Interval rules live in ValidateInterval.
type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("resource", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() == reflect.String && model.Resource(f.String()).Valid()
	}); err != nil {
		log.Fatal("Failed to register 'resource' validator", "error", err)
	}
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		update := sl.Current().Interface().(model.BookingUpdate)
		if update.IsEmpty() {
			sl.ReportError(nil, "body", "body", "nonempty", "")
		}
	}, model.BookingUpdate{})

	return &BookingValidator{validate: v}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func (v *BookingValidator) ValidateInput(input *model.BookingInput) error {
	return v.check(input)
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	return v.check(update)
}

func (v *BookingValidator) check(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Error()
		if render, ok := messages[fe.Tag()]; ok {
			msg = render(fe)
		}
		out = append(out, ValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}
