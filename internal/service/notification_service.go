package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/provider-registration/internal/events"
)

// NotificationService reacts to provider events by dispatching emails.
// Delivery failures are logged and swallowed; a registration that already
// persisted is never failed by its notification.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventProviderRegistered, n.handleProviderRegistered)
	n.dispatcher.Subscribe(events.EventProviderVerified, n.handleProviderVerified)
}

func (n *NotificationService) handleProviderRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ProviderRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload for provider_registered", zap.String("event_id", event.ID))
		return nil
	}

	if err := n.mailer.SendVerificationEmail(ctx, payload.Email, payload.FullName, payload.VerificationToken); err != nil {
		n.logger.Error("failed to send verification email",
			zap.String("provider_id", event.ProviderID),
			zap.String("email", payload.Email),
			zap.Error(err),
		)
		return nil
	}

	n.logger.Info("verification email sent",
		zap.String("provider_id", event.ProviderID),
		zap.String("email", payload.Email),
	)
	return nil
}

func (n *NotificationService) handleProviderVerified(_ context.Context, event events.Event) error {
	n.logger.Info("provider verified", zap.String("provider_id", event.ProviderID))
	return nil
}
