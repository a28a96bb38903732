package worker

import (
	"github.com/spec-kit/provider-registration/internal/service"
)

// StartNotificationWorker registers verification email handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
