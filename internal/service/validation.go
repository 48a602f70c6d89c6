package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

// NewValidator returns a validator with the domain's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	return v
}
