package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provider-registration/internal/domain"
)

// AuditRepository appends registration attempt records. The table is
// append-only; no update or delete access is exposed.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_logs (ip_address, email, action, outcome, details)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		entry.IPAddress,
		entry.Email,
		entry.Action,
		entry.Outcome,
		entry.Details,
	).Scan(&entry.ID, &entry.Timestamp)
}
