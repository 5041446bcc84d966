package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `id, application_ref, phone, citizen_name, scheme_id, scheme_name, scheme_category,
	status, benefit_amount, valid_until, recurring_enrollment, notes, created_at, updated_at`

// Repo implements Repository over PostgreSQL.
type Repo struct {
	db db.Querier
}

// New creates a new applications repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

var _ Repository = (*Repo)(nil)

// Create inserts an application. A duplicate reference is a conflict.
func (r *Repo) Create(ctx context.Context, a Application) (Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO applications (id, application_ref, phone, citizen_name, scheme_id, scheme_name, scheme_category,
			status, benefit_amount, valid_until, recurring_enrollment, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+applicationColumns,
		a.ID, a.ApplicationRef, a.Phone, a.CitizenName, a.SchemeID, a.SchemeName, a.SchemeCategory,
		a.Status, a.BenefitAmount, a.ValidUntil, a.RecurringEnrollment, a.Notes,
	)
	saved, err := scanApplication(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Application{}, apperr.Conflict("application reference already exists")
		}
		return Application{}, fmt.Errorf("create application: %w", err)
	}
	return saved, nil
}

// GetByID loads an application.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, apperr.NotFound("application not found")
		}
		return Application{}, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// List returns a page of applications, newest first, and the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Application, int, error) {
	where := `
		WHERE ($1::text IS NULL OR status = $1)
		AND ($2::text IS NULL OR phone = $2)
		AND ($3::text IS NULL OR scheme_id = $3)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications`+where,
		params.Status, params.Phone, params.SchemeID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM applications`+where+`
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`,
		params.Status, params.Phone, params.SchemeID, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByPhone returns every application filed for phone, newest first.
func (r *Repo) ListByPhone(ctx context.Context, phone string) ([]Application, error) {
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE phone = $1 ORDER BY created_at DESC`, phone)
	if err != nil {
		return nil, fmt.Errorf("list applications by phone: %w", err)
	}
	return collect(rows)
}

// UpdateStatus sets the status and optionally the benefit terms and notes.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, u StatusUpdate) (Application, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE applications SET
			status = $2,
			benefit_amount = COALESCE($3, benefit_amount),
			valid_until = COALESCE($4, valid_until),
			notes = COALESCE($5, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING `+applicationColumns,
		id, u.Status, u.BenefitAmount, u.ValidUntil, u.Notes,
	)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, apperr.NotFound("application not found")
		}
		return Application{}, fmt.Errorf("update application status: %w", err)
	}
	return a, nil
}

// ListPending returns pending applications filed at or before filedBefore, oldest first.
func (r *Repo) ListPending(ctx context.Context, filedBefore time.Time) ([]Application, error) {
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE status = ANY($1) AND created_at <= $2
		ORDER BY created_at ASC`, PendingStatuses, filedBefore)
	if err != nil {
		return nil, fmt.Errorf("list pending applications: %w", err)
	}
	return collect(rows)
}

// Update rewrites the editable fields. The reference and phone never change.
func (r *Repo) Update(ctx context.Context, a Application) (Application, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE applications SET
			citizen_name = $2,
			scheme_id = $3,
			scheme_name = $4,
			scheme_category = $5,
			status = $6,
			benefit_amount = $7,
			valid_until = $8,
			recurring_enrollment = $9,
			notes = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING `+applicationColumns,
		a.ID, a.CitizenName, a.SchemeID, a.SchemeName, a.SchemeCategory,
		a.Status, a.BenefitAmount, a.ValidUntil, a.RecurringEnrollment, a.Notes,
	)
	saved, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, apperr.NotFound("application not found")
		}
		return Application{}, fmt.Errorf("update application: %w", err)
	}
	return saved, nil
}

// Delete removes an application.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (Application, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM applications WHERE id = $1 RETURNING `+applicationColumns, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, apperr.NotFound("application not found")
		}
		return Application{}, fmt.Errorf("delete application: %w", err)
	}
	return a, nil
}

func scanApplication(row pgx.Row) (Application, error) {
	var a Application
	err := row.Scan(
		&a.ID, &a.ApplicationRef, &a.Phone, &a.CitizenName, &a.SchemeID, &a.SchemeName, &a.SchemeCategory,
		&a.Status, &a.BenefitAmount, &a.ValidUntil, &a.RecurringEnrollment, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func collect(rows pgx.Rows) ([]Application, error) {
	defer rows.Close()
	items := make([]Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return items, nil
}
