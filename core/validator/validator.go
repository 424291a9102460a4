package validator

import (
	"go-booking-api/core/errors"

	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to echo's Validator interface.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fe.Field()+" failed on '"+fe.Tag()+"'")
			}
			return errors.NewAppError(errors.ErrInvalidRequestData, "Request validation failed", details)
		}
		return err
	}
	return nil
}
