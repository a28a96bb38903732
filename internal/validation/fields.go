package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spec-kit/provider-registration/internal/domain"
)

const (
	emailMaxLength   = 254
	nameMinLength    = 2
	nameMaxLength    = 50
	licenseMinLength = 5
	licenseMaxLength = 50
	experienceMax    = 50
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	namePattern    = regexp.MustCompile(`^[a-zA-Z\s'\-]+$`)
	licensePattern = regexp.MustCompile(`^[A-Z0-9]+$`)
	zipUSPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	zipIntlPattern = regexp.MustCompile(`^[\w\s\-]{3,20}$`)
)

// FieldValidator bundles the pure per-field checks that depend on configured
// enumerations (allowed specializations, disposable email domains).
type FieldValidator struct {
	specializations    map[string]struct{}
	specializationList []string
	disposableDomains  map[string]struct{}
}

// NewFieldValidator builds a validator from the configured enumerations.
func NewFieldValidator(specializations, disposableDomains []string) *FieldValidator {
	v := &FieldValidator{
		specializations:   make(map[string]struct{}, len(specializations)),
		disposableDomains: make(map[string]struct{}, len(disposableDomains)),
	}
	for _, s := range specializations {
		v.specializations[s] = struct{}{}
	}
	v.specializationList = append(v.specializationList, specializations...)
	for _, d := range disposableDomains {
		v.disposableDomains[strings.ToLower(d)] = struct{}{}
	}
	return v
}

// Specializations returns the allowed specialization enumeration in
// configuration order.
func (v *FieldValidator) Specializations() []string {
	return append([]string{}, v.specializationList...)
}

// ValidateEmail checks RFC shape, length, and the disposable-domain list.
func (v *FieldValidator) ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("email address is required")
	}
	if len(email) > emailMaxLength {
		return errors.New("email address is too long (max 254 characters)")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email address format")
	}
	domainPart := email[strings.LastIndex(email, "@")+1:]
	if _, blocked := v.disposableDomains[domainPart]; blocked {
		return errors.New("disposable email addresses are not allowed")
	}
	return nil
}

// ValidateName checks a person-name field; field names the violating input
// in the returned message.
func (v *FieldValidator) ValidateName(name, field string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(name) < nameMinLength {
		return fmt.Errorf("%s must be at least 2 characters long", field)
	}
	if len(name) > nameMaxLength {
		return fmt.Errorf("%s must not exceed 50 characters", field)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%s can only contain letters, spaces, hyphens, and apostrophes", field)
	}
	return nil
}

// ValidateLicenseNumber checks alphanumeric shape and length bounds.
func (v *FieldValidator) ValidateLicenseNumber(license string) error {
	license = strings.ToUpper(strings.TrimSpace(license))
	if license == "" {
		return errors.New("license number is required")
	}
	if len(license) < licenseMinLength {
		return errors.New("license number must be at least 5 characters long")
	}
	if len(license) > licenseMaxLength {
		return errors.New("license number must not exceed 50 characters")
	}
	if !licensePattern.MatchString(license) {
		return errors.New("license number must contain only letters and numbers")
	}
	return nil
}

// ValidateSpecialization requires an exact, case-sensitive member of the
// configured enumeration.
func (v *FieldValidator) ValidateSpecialization(specialization string) error {
	specialization = strings.TrimSpace(specialization)
	if specialization == "" {
		return errors.New("specialization is required")
	}
	if _, ok := v.specializations[specialization]; !ok {
		return fmt.Errorf("specialization must be one of: %s", strings.Join(v.specializationList, ", "))
	}
	return nil
}

// ValidateExperienceYears bounds years of experience to [0, 50].
func (v *FieldValidator) ValidateExperienceYears(years int) error {
	if years < 0 {
		return errors.New("years of experience cannot be negative")
	}
	if years > experienceMax {
		return errors.New("years of experience cannot exceed 50 years")
	}
	return nil
}

// ValidateAddress checks the clinic address and returns every violation.
// ZIP codes must match the US 5-digit or 5+4 shape, with a permissive
// fallback for international postal codes.
func (v *FieldValidator) ValidateAddress(addr domain.ClinicAddress) []string {
	var violations []string

	street := strings.TrimSpace(addr.Street)
	if street == "" {
		violations = append(violations, "address street is required")
	} else if len(street) < 5 {
		violations = append(violations, "street address must be at least 5 characters long")
	}

	if strings.TrimSpace(addr.City) == "" {
		violations = append(violations, "address city is required")
	}
	if strings.TrimSpace(addr.State) == "" {
		violations = append(violations, "address state is required")
	}

	zip := strings.TrimSpace(addr.Zip)
	if zip == "" {
		violations = append(violations, "address zip is required")
	} else if !zipUSPattern.MatchString(zip) && !zipIntlPattern.MatchString(zip) {
		violations = append(violations, "invalid ZIP/postal code format")
	}

	return violations
}
