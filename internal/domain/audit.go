package domain

import "time"

// AuditOutcome classifies the result of a registration attempt.
type AuditOutcome string

const (
	AuditOutcomeSuccess AuditOutcome = "success"
	AuditOutcomeFailure AuditOutcome = "failure"
)

// Audit actions recorded by the registration pipeline.
const (
	AuditActionRegistration = "registration_attempt"
	AuditActionVerification = "email_verification"
)

// AuditEntry is one append-only record of a registration attempt.
type AuditEntry struct {
	ID        string
	Timestamp time.Time
	IPAddress string
	Email     string
	Action    string
	Outcome   AuditOutcome
	Details   string
}
