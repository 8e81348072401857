package util

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct validates a struct using validator tags
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// GetValidationErrors formats validation errors into readable messages
func GetValidationErrors(err error) []string {
	var errors []string
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required", "required_with":
				errors = append(errors, fieldError.Field()+" is required")
			case "oneof":
				errors = append(errors, fieldError.Field()+" must be one of: "+fieldError.Param())
			case "min":
				errors = append(errors, fieldError.Field()+" must be at least "+fieldError.Param())
			case "max":
				errors = append(errors, fieldError.Field()+" must be at most "+fieldError.Param())
			default:
				errors = append(errors, fieldError.Field()+" is invalid")
			}
		}
	}
	if len(errors) == 0 && err != nil {
		errors = append(errors, err.Error())
	}
	return errors
}
