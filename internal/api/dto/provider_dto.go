package dto

import "github.com/spec-kit/provider-registration/internal/domain"

// RegisterProviderRequest is the JSON body for provider registration.
type RegisterProviderRequest struct {
	FirstName         string               `json:"first_name"`
	LastName          string               `json:"last_name"`
	Email             string               `json:"email"`
	PhoneNumber       string               `json:"phone_number"`
	Password          string               `json:"password"`
	ConfirmPassword   string               `json:"confirm_password"`
	Specialization    string               `json:"specialization"`
	LicenseNumber     string               `json:"license_number"`
	YearsOfExperience int                  `json:"years_of_experience"`
	ClinicAddress     domain.ClinicAddress `json:"clinic_address"`
}

// RegisterProviderResponse is returned on successful registration. The
// password and its hash never appear in any response body.
type RegisterProviderResponse struct {
	ProviderID         string `json:"provider_id"`
	Email              string `json:"email"`
	VerificationStatus string `json:"verification_status"`
}

// VerifyEmailResponse is returned by the verification endpoint.
type VerifyEmailResponse struct {
	Email              string `json:"email"`
	VerificationStatus string `json:"verification_status"`
	AlreadyVerified    bool   `json:"already_verified,omitempty"`
}
