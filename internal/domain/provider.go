package domain

import "time"

// VerificationStatus represents lifecycle states for a provider account.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
)

// ClinicAddress holds the practice location for a provider.
type ClinicAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Provider is the domain model for a registered healthcare provider.
// PasswordHash is the only password-derived field ever stored.
type Provider struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	PasswordHash      string
	Specialization    string
	LicenseNumber     string
	YearsOfExperience int
	ClinicAddress     ClinicAddress
	Status            VerificationStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullName concatenates first and last names for email salutations.
func (p *Provider) FullName() string {
	return p.FirstName + " " + p.LastName
}
