package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provider-registration/internal/domain"
)

const uniqueViolationCode = "23505"

// DuplicateFieldError reports a uniqueness constraint violation mapped back
// to the registration field that caused it.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return "duplicate " + e.Field
}

// ProviderRepository defines persistence access for provider accounts.
type ProviderRepository interface {
	Create(ctx context.Context, provider *domain.Provider) error
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
	GetByEmail(ctx context.Context, email string) (*domain.Provider, error)
	MarkVerified(ctx context.Context, id string) error
}

type providerRepository struct {
	pool *pgxpool.Pool
}

// NewProviderRepository returns a Postgres-backed implementation.
func NewProviderRepository(pool *pgxpool.Pool) ProviderRepository {
	return &providerRepository{pool: pool}
}

func (r *providerRepository) Create(ctx context.Context, provider *domain.Provider) error {
	const query = `
        INSERT INTO providers (
            first_name, last_name, email, phone_number, password_hash,
            specialization, license_number, years_of_experience,
            clinic_address, verification_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		provider.FirstName,
		provider.LastName,
		provider.Email,
		provider.PhoneNumber,
		provider.PasswordHash,
		provider.Specialization,
		provider.LicenseNumber,
		provider.YearsOfExperience,
		provider.ClinicAddress,
		provider.Status,
	).Scan(&provider.ID, &provider.CreatedAt, &provider.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *providerRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	return r.getOne(ctx, `WHERE id=$1`, id)
}

func (r *providerRepository) GetByEmail(ctx context.Context, email string) (*domain.Provider, error) {
	return r.getOne(ctx, `WHERE email=$1`, email)
}

func (r *providerRepository) getOne(ctx context.Context, where string, arg any) (*domain.Provider, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, password_hash,
               specialization, license_number, years_of_experience,
               clinic_address, verification_status, created_at, updated_at
        FROM providers ` + where

	var provider domain.Provider
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&provider.ID,
		&provider.FirstName,
		&provider.LastName,
		&provider.Email,
		&provider.PhoneNumber,
		&provider.PasswordHash,
		&provider.Specialization,
		&provider.LicenseNumber,
		&provider.YearsOfExperience,
		&provider.ClinicAddress,
		&provider.Status,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) MarkVerified(ctx context.Context, id string) error {
	const query = `
        UPDATE providers SET verification_status=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, domain.VerificationVerified, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	switch pgErr.ConstraintName {
	case "providers_phone_number_key":
		return &DuplicateFieldError{Field: "phone_number"}
	case "providers_license_number_key":
		return &DuplicateFieldError{Field: "license_number"}
	default:
		return &DuplicateFieldError{Field: "email"}
	}
}
