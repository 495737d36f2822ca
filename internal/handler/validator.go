package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// Validator wraps a configured validator.Validate
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once
)

// InitValidator builds the shared validator with the engine's custom tags.
// Field errors are reported under their JSON names.
func InitValidator() {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	_ = v.RegisterValidation("reward_source", func(fl validator.FieldLevel) bool {
		return domain.RewardSource(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("user_id", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id != "" && !strings.ContainsAny(id, " \t\r\n")
	})

	validate = &Validator{validate: v}
}

// GetValidator returns the shared validator, building it on first use
func GetValidator() *Validator {
	validateOnce.Do(InitValidator)
	return validate
}

func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

var fieldMessages = map[string]string{
	"required":      "This field is required",
	"reward_source": "Unknown reward source",
	"user_id":       "Must not contain whitespace",
}

var boundMessages = map[string]string{
	"max": "Must be at most %s",
	"min": "Must be at least %s",
	"gte": "Must be greater than or equal to %s",
}

// FormatValidationError turns validator errors into a field -> message map
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		switch {
		case fieldMessages[e.Tag()] != "":
			out[e.Field()] = fieldMessages[e.Tag()]
		case boundMessages[e.Tag()] != "":
			out[e.Field()] = fmt.Sprintf(boundMessages[e.Tag()], e.Param())
		default:
			out[e.Field()] = "Invalid value"
		}
	}
	return out
}
