// internal/utils/validator.go
package utils

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/nft-marketplace/internal/models"
)

const maxTokenIDLength = 255

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report JSON field names so errors match the request body.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	validate.RegisterValidation("token_id", validateTokenID)
	validate.RegisterValidation("currency", validateCurrency)
	validate.RegisterValidation("notblank", validateNotBlank)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateTokenID accepts up to 255 characters with no whitespace or
// control characters.
func validateTokenID(fl validator.FieldLevel) bool {
	tokenID := fl.Field().String()
	if tokenID == "" || len(tokenID) > maxTokenIDLength {
		return false
	}

	for _, r := range tokenID {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func validateCurrency(fl validator.FieldLevel) bool {
	_, ok := models.CurrencyDecimals(fl.Field().String())
	return ok
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   lowerFirst(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "token_id":
		return "Token ID must be 1-255 characters without whitespace"
	case "currency":
		return "Currency must be one of " + strings.Join(models.SupportedCurrencies(), ", ")
	default:
		return e.Field() + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
