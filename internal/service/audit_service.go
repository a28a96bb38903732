package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/provider-registration/internal/domain"
	"github.com/spec-kit/provider-registration/internal/repository"
)

// AuditService writes registration attempt records. Writes are best-effort:
// a failed append goes to the fallback log channel and never overturns the
// already-decided request outcome.
type AuditService struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record appends one audit entry.
func (s *AuditService) Record(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("ip", entry.IPAddress),
			zap.String("email", entry.Email),
			zap.String("action", entry.Action),
			zap.String("outcome", string(entry.Outcome)),
			zap.Error(err),
		)
	}
}
