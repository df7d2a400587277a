package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormValidator wraps go-playground/validator for echo.
type FormValidator struct {
	validator *validator.Validate
}

func NewFormValidator() *FormValidator {
	return &FormValidator{validator: validator.New()}
}

// Validate validates a struct using validator tags.
func (v *FormValidator) Validate(i any) error {
	if err := v.validator.Struct(i); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return fmt.Errorf("%s failed on '%s' validation", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}
