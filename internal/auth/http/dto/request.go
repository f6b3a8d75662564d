// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyrelay/internal/validation"
)

// RegisterUserRequest contains the parameters for registering a new user.
// The master secret gates registration; it is never echoed back or logged.
type RegisterUserRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	MasterSecret string `json:"master_secret"`
}

// Validate checks if the register user request is valid.
func (r *RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(3, 64),
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.PasswordStrength{
				MinLength:      12,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
		validation.Field(&r.MasterSecret,
			validation.Required,
		),
	)
}

// LoginRequest contains user login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
	)
}

// RotateKeyRequest re-authenticates a user for API key rotation.
type RotateKeyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the rotate key request is valid.
func (r *RotateKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
	)
}
