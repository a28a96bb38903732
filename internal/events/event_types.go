package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProviderRegistered EventType = "provider_registered"
	EventProviderVerified   EventType = "provider_verified"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ProviderID string      `json:"provider_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ProviderRegisteredPayload carries what the notification side needs to
// send the verification email.
type ProviderRegisteredPayload struct {
	Email             string `json:"email"`
	FullName          string `json:"full_name"`
	VerificationToken string `json:"verification_token"`
}

// ProviderVerifiedPayload payload.
type ProviderVerifiedPayload struct {
	Email string `json:"email"`
}
