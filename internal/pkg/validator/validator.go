package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Language validation (site supports English, Arabic and French)
	validate.RegisterValidation("lang", func(fl validator.FieldLevel) bool {
		lang := fl.Field().String()
		switch lang {
		case "en", "ar", "fr":
			return true
		}
		return false
	})

	// Latitude validation
	validate.RegisterValidation("latitude_range", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return v >= -90 && v <= 90
	})

	// Longitude validation
	validate.RegisterValidation("longitude_range", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return v >= -180 && v <= 180
	})
}

// Validate validates a struct and returns a field->message map, or nil
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "lang":
			errors[field] = "Invalid language. Must be: en, ar or fr"
		case "latitude_range":
			errors[field] = "Latitude must be between -90 and 90"
		case "longitude_range":
			errors[field] = "Longitude must be between -180 and 180"
		default:
			errors[field] = "Invalid value"
		}
	}
	return errors
}
