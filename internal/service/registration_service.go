package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/provider-registration/internal/config"
	"github.com/spec-kit/provider-registration/internal/domain"
	"github.com/spec-kit/provider-registration/internal/events"
	"github.com/spec-kit/provider-registration/internal/observability"
	"github.com/spec-kit/provider-registration/internal/ratelimit"
	"github.com/spec-kit/provider-registration/internal/repository"
	"github.com/spec-kit/provider-registration/internal/security"
	"github.com/spec-kit/provider-registration/internal/validation"
	"github.com/spec-kit/provider-registration/pkg/errorutil"
)

// RegistrationInput is the transient request passed through the pipeline.
// It exists only for the duration of one call; the raw password never
// outlives it.
type RegistrationInput struct {
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	Password          string
	ConfirmPassword   string
	Specialization    string
	LicenseNumber     string
	YearsOfExperience int
	ClinicAddress     domain.ClinicAddress
	ClientIP          string
}

// RegistrationOutcome is returned on successful registration.
type RegistrationOutcome struct {
	ProviderID string
	Email      string
	Status     domain.VerificationStatus
}

// VerificationOutcome is returned by the email verification flow.
type VerificationOutcome struct {
	Email           string
	AlreadyVerified bool
}

// RegistrationDependencies encapsulates collaborator requirements.
type RegistrationDependencies struct {
	Providers  repository.ProviderRepository
	Limiter    ratelimit.Limiter
	Fields     *validation.FieldValidator
	Tokens     *security.VerificationTokenManager
	Dispatcher events.Dispatcher
	Audit      *AuditService
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// RegistrationService orchestrates the registration pipeline:
// rate-check, validate, persist, notify, audit, strictly in that order.
type RegistrationService struct {
	providers          repository.ProviderRepository
	limiter            ratelimit.Limiter
	fields             *validation.FieldValidator
	tokens             *security.VerificationTokenManager
	dispatcher         events.Dispatcher
	audit              *AuditService
	metrics            *observability.Metrics
	logger             *zap.Logger
	bcryptCost         int
	defaultPhoneRegion string
	rateLimit          config.RateLimitConfig
}

// NewRegistrationService builds the service.
func NewRegistrationService(cfg config.Config, deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		providers:          deps.Providers,
		limiter:            deps.Limiter,
		fields:             deps.Fields,
		tokens:             deps.Tokens,
		dispatcher:         deps.Dispatcher,
		audit:              deps.Audit,
		metrics:            deps.Metrics,
		logger:             deps.Logger,
		bcryptCost:         cfg.Security.BcryptCost,
		defaultPhoneRegion: cfg.Validation.DefaultPhoneRegion,
		rateLimit:          cfg.RateLimit,
	}
}

// Register runs one registration attempt. Exactly one audit entry is
// written per call, whatever the outcome. A provider record is persisted
// only when the limiter admitted the attempt and the aggregated validation
// result is empty.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*RegistrationOutcome, error) {
	// Audit writes survive upstream cancellation; the attempt happened
	// either way.
	auditCtx := context.WithoutCancel(ctx)

	decision, err := s.limiter.Allow(ctx, in.ClientIP)
	if err != nil {
		s.logger.Warn("rate limiter unavailable, admitting attempt", zap.Error(err))
		decision = ratelimit.Decision{Allowed: true}
	}
	if !decision.Allowed {
		s.metrics.RecordRegistration("rate_limited")
		s.audit.Record(auditCtx, s.auditEntry(in, domain.AuditOutcomeFailure, "rate limit exceeded"))
		return nil, errorutil.NewRateLimitError(decision.RetryAfter, s.rateLimit.Requests,
			decision.Remaining, s.rateLimit.WindowSeconds, decision.ResetAt)
	}

	result, phone := s.validate(in)
	if !result.Valid() {
		s.metrics.RecordRegistration("validation_failed")
		s.audit.Record(auditCtx, s.auditEntry(in, domain.AuditOutcomeFailure,
			"validation failed: "+strings.Join(violatedFields(result), ", ")))
		return nil, errorutil.NewValidationError(result.Fields())
	}

	hash, err := security.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		s.metrics.RecordRegistration("error")
		s.audit.Record(auditCtx, s.auditEntry(in, domain.AuditOutcomeFailure, "password hashing failed"))
		return nil, errorutil.NewInternalError(err)
	}

	provider := &domain.Provider{
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber:       phone,
		PasswordHash:      hash,
		Specialization:    strings.TrimSpace(in.Specialization),
		LicenseNumber:     strings.ToUpper(strings.TrimSpace(in.LicenseNumber)),
		YearsOfExperience: in.YearsOfExperience,
		ClinicAddress: domain.ClinicAddress{
			Street: strings.TrimSpace(in.ClinicAddress.Street),
			City:   strings.TrimSpace(in.ClinicAddress.City),
			State:  strings.TrimSpace(in.ClinicAddress.State),
			Zip:    strings.TrimSpace(in.ClinicAddress.Zip),
		},
		Status: domain.VerificationPending,
	}

	if err := s.providers.Create(ctx, provider); err != nil {
		var dup *repository.DuplicateFieldError
		if errors.As(err, &dup) {
			s.metrics.RecordRegistration("duplicate")
			s.audit.Record(auditCtx, s.auditEntry(in, domain.AuditOutcomeFailure, "duplicate "+dup.Field))
			return nil, errorutil.NewDuplicateError(dup.Field)
		}
		s.metrics.RecordRegistration("error")
		s.audit.Record(auditCtx, s.auditEntry(in, domain.AuditOutcomeFailure, "persistence failure"))
		return nil, errorutil.NewDependencyFailure("persistence", err)
	}

	s.publishRegistered(ctx, provider)

	s.metrics.RecordRegistration("admitted")
	s.audit.Record(auditCtx, s.auditEntry(in, domain.AuditOutcomeSuccess,
		fmt.Sprintf("provider registered with id %s", provider.ID)))

	return &RegistrationOutcome{
		ProviderID: provider.ID,
		Email:      provider.Email,
		Status:     provider.Status,
	}, nil
}

// VerifyEmail transitions a pending provider to verified using the token
// from the verification email. Verifying an already-verified account is
// reported, not treated as an error.
func (s *RegistrationService) VerifyEmail(ctx context.Context, token, clientIP string) (*VerificationOutcome, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errorutil.NewBadRequest("verification token is required")
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errorutil.NewDomainError("INVALID_TOKEN",
			"invalid or expired verification token", http.StatusBadRequest, nil)
	}

	provider, err := s.providers.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("provider", nil)
		}
		return nil, errorutil.NewDependencyFailure("persistence", err)
	}

	if provider.Status == domain.VerificationVerified {
		return &VerificationOutcome{Email: provider.Email, AlreadyVerified: true}, nil
	}

	if err := s.providers.MarkVerified(ctx, provider.ID); err != nil {
		return nil, errorutil.NewDependencyFailure("persistence", err)
	}

	_ = s.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventProviderVerified,
		ProviderID: provider.ID,
		Timestamp:  time.Now(),
		Payload:    events.ProviderVerifiedPayload{Email: provider.Email},
	})

	s.audit.Record(context.WithoutCancel(ctx), &domain.AuditEntry{
		IPAddress: clientIP,
		Email:     provider.Email,
		Action:    domain.AuditActionVerification,
		Outcome:   domain.AuditOutcomeSuccess,
		Details:   "provider verified",
	})

	return &VerificationOutcome{Email: provider.Email}, nil
}

// Specializations returns the allowed specialization enumeration.
func (s *RegistrationService) Specializations() []string {
	return s.fields.Specializations()
}

// PasswordRequirements returns the password policy description.
func (s *RegistrationService) PasswordRequirements() validation.Requirements {
	return validation.PasswordRequirements()
}

// validate runs every field validator unconditionally and aggregates all
// violations; it never stops at the first failure. Returns the normalized
// E.164 phone number when the phone was valid.
func (s *RegistrationService) validate(in RegistrationInput) (validation.Result, string) {
	result := validation.Result{}

	if err := s.fields.ValidateName(in.FirstName, "first name"); err != nil {
		result.Add("first_name", err.Error())
	}
	if err := s.fields.ValidateName(in.LastName, "last name"); err != nil {
		result.Add("last_name", err.Error())
	}
	if err := s.fields.ValidateEmail(in.Email); err != nil {
		result.Add("email", err.Error())
	}

	phone, err := validation.NormalizePhone(in.PhoneNumber, s.defaultPhoneRegion)
	if err != nil {
		result.Add("phone_number", err.Error())
	}

	result.AddAll("password", validation.CheckPassword(in.Password, in.ConfirmPassword))

	if err := s.fields.ValidateSpecialization(in.Specialization); err != nil {
		result.Add("specialization", err.Error())
	}
	if err := s.fields.ValidateLicenseNumber(in.LicenseNumber); err != nil {
		result.Add("license_number", err.Error())
	}
	if err := s.fields.ValidateExperienceYears(in.YearsOfExperience); err != nil {
		result.Add("years_of_experience", err.Error())
	}
	result.AddAll("clinic_address", s.fields.ValidateAddress(in.ClinicAddress))

	return result, phone
}

// publishRegistered mints the verification token and hands off to the
// notification side. The record is already persisted, so dispatch runs on
// a context that survives upstream cancellation and any failure here is
// logged, never surfaced.
func (s *RegistrationService) publishRegistered(ctx context.Context, provider *domain.Provider) {
	token, _, err := s.tokens.Generate(provider.ID, provider.Email)
	if err != nil {
		s.logger.Error("failed to mint verification token",
			zap.String("provider_id", provider.ID), zap.Error(err))
		return
	}

	_ = s.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventProviderRegistered,
		ProviderID: provider.ID,
		Timestamp:  time.Now(),
		Payload: events.ProviderRegisteredPayload{
			Email:             provider.Email,
			FullName:          provider.FullName(),
			VerificationToken: token,
		},
	})
}

func (s *RegistrationService) auditEntry(in RegistrationInput, outcome domain.AuditOutcome, details string) *domain.AuditEntry {
	return &domain.AuditEntry{
		IPAddress: in.ClientIP,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Action:    domain.AuditActionRegistration,
		Outcome:   outcome,
		Details:   details,
	}
}

func violatedFields(result validation.Result) []string {
	fields := make([]string, 0, len(result))
	for field := range result {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
