package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"garden/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NewValidator returns a validator that reports fields by their json names and knows
// the "category" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})
	return v
}

// bind decodes the request body into out and validates it.
func bind(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		appErr := models.NewValidationError("Invalid request body",
			models.ErrorSource{Path: "body", Message: err.Error()})
		appErr.Err = err
		return appErr
	}
	return v.Struct(out)
}

func validationSources(errs validator.ValidationErrors) []models.ErrorSource {
	sources := make([]models.ErrorSource, 0, len(errs))
	for _, e := range errs {
		sources = append(sources, models.ErrorSource{Path: e.Field(), Message: describe(e)})
	}
	return sources
}

func describe(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid url"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "category":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(categoryNames(), ", "))
	default:
		return field + " is invalid"
	}
}

func categoryNames() []string {
	names := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		names = append(names, string(c))
	}
	return names
}
