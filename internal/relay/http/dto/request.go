// Package dto provides data transfer objects for key-release HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/keyrelay/internal/crypto/domain"
	customValidation "github.com/allisson/keyrelay/internal/validation"
)

// DecryptTestRequest contains an envelope and the secret to open it with.
// Field-level size and hex checks happen in Envelope.Decode; validation here
// only rejects structurally empty requests early.
type DecryptTestRequest struct {
	EncryptedData cryptoDomain.Envelope `json:"encrypted_data"`
	Secret        string                `json:"secret"`
}

// Validate checks if the decrypt test request is valid.
func (r *DecryptTestRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Secret,
			validation.Required,
		),
		validation.Field(&r.EncryptedData,
			validation.By(validateEnvelopePresence),
		),
	)
}

// validateEnvelopePresence rejects envelopes with missing fields.
func validateEnvelopePresence(value interface{}) error {
	envelope, ok := value.(cryptoDomain.Envelope)
	if !ok {
		return validation.NewError("validation_envelope_type", "must be an envelope")
	}

	return validation.ValidateStruct(&envelope,
		validation.Field(&envelope.Ciphertext,
			validation.Required,
			customValidation.Hex,
		),
		validation.Field(&envelope.Salt,
			validation.Required,
			customValidation.Hex,
		),
		validation.Field(&envelope.IV,
			validation.Required,
			customValidation.Hex,
		),
		validation.Field(&envelope.AuthTag,
			validation.Required,
			customValidation.Hex,
		),
	)
}
