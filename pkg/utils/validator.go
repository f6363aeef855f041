package util

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"

	"Sistem-Absensi-RFID/models"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	Validate.RegisterValidation("attstatus", validateAttendanceStatus)
	Validate.RegisterValidation("rrule", validateRRule)
}

func validateAttendanceStatus(fl validator.FieldLevel) bool {
	_, ok := models.ParseStatus(fl.Field().String())
	return ok
}

func validateRRule(fl validator.FieldLevel) bool {
	_, err := rrule.StrToROption(fl.Field().String())
	return err == nil
}

// ValidateStruct returns one entry per failed field, or nil when s is valid.
func ValidateStruct(s interface{}) []models.FieldError {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Tag: "invalid", Msg: err.Error()}}
	}

	var out []models.FieldError
	for _, fe := range verrs {
		element := models.FieldError{Field: fe.Field(), Tag: fe.Tag()}

		switch fe.Tag() {
		case "required":
			element.Msg = fmt.Sprintf("Field '%s' is required.", element.Field)
		case "min":
			element.Msg = fmt.Sprintf("Field '%s' must be at least %s characters.", element.Field, fe.Param())
		case "max":
			element.Msg = fmt.Sprintf("Field '%s' must be at most %s characters.", element.Field, fe.Param())
		case "email":
			element.Msg = "Invalid email format."
		case "attstatus":
			element.Msg = "Status must be one of P, A, L, H."
		case "rrule":
			element.Msg = fmt.Sprintf("Field '%s' must be a valid RRULE.", element.Field)
		default:
			element.Msg = fmt.Sprintf("Field '%s' failed on '%s'.", element.Field, element.Tag)
		}
		out = append(out, element)
	}
	return out
}
