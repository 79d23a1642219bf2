package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

// Countries accepted on user profiles. Empty means "not set".
var Countries = []string{
	"United States",
	"Canada",
	"United Kingdom",
	"Australia",
	"Germany",
	"France",
	"Egypt",
	"Saudi Arabia",
	"UAE",
	"India",
	"China",
	"Japan",
	"Brazil",
	"Mexico",
	"South Africa",
}

// PayoutMethods accepted for withdrawal requests.
var PayoutMethods = []string{"paypal", "payeer", "bitcoin", "eth"}

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
	validate.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		country := fl.Field().String()
		return country == "" || contains(Countries, country)
	})

	validate.RegisterValidation("payout_method", func(fl validator.FieldLevel) bool {
		return contains(PayoutMethods, fl.Field().String())
	})
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "eqfield":
			errors[field] = "Value does not match"
		case "country":
			errors[field] = "Unsupported country"
		case "payout_method":
			errors[field] = "Invalid payment method. Must be: paypal, payeer, bitcoin, or eth"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
