package repository

import (
	"context"
	"errors"
	"fmt"

	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const consultationColumns = `id, phone, citizen_name, email, consultation_date, consultation_time, consultation_type,
	query_category, query_description, preferred_language, district, status, assigned_agent, notes, created_at, updated_at`

// Repo implements Repository over PostgreSQL.
type Repo struct {
	db db.Querier
}

// New creates a new consultations repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

var _ Repository = (*Repo)(nil)

// Create inserts a consultation.
func (r *Repo) Create(ctx context.Context, c Consultation) (Consultation, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO consultations (id, phone, citizen_name, email, consultation_date, consultation_time,
			consultation_type, query_category, query_description, preferred_language, district, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+consultationColumns,
		c.ID, c.Phone, c.CitizenName, c.Email, c.ConsultationDate, c.ConsultationTime, c.ConsultationType,
		c.QueryCategory, c.QueryDescription, c.PreferredLanguage, c.District, c.Status, c.Notes,
	)
	saved, err := scanConsultation(row)
	if err != nil {
		return Consultation{}, fmt.Errorf("create consultation: %w", err)
	}
	return saved, nil
}

// GetByID loads a consultation.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Consultation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+consultationColumns+` FROM consultations WHERE id = $1`, id)
	c, err := scanConsultation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Consultation{}, apperr.NotFound("consultation not found")
		}
		return Consultation{}, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

// List returns a page of consultations, newest first, and the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Consultation, int, error) {
	where := `
		WHERE ($1::text IS NULL OR status = $1)
		AND ($2::text IS NULL OR phone = $2)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM consultations`+where, params.Status, params.Phone).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count consultations: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+consultationColumns+` FROM consultations`+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		params.Status, params.Phone, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list consultations: %w", err)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByPhone returns every consultation booked for phone, newest first.
func (r *Repo) ListByPhone(ctx context.Context, phone string) ([]Consultation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+consultationColumns+` FROM consultations
		WHERE phone = $1 ORDER BY created_at DESC`, phone)
	if err != nil {
		return nil, fmt.Errorf("list consultations by phone: %w", err)
	}
	return collect(rows)
}

// UpdateStatus sets the status and optionally the agent and notes.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, u StatusUpdate) (Consultation, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE consultations SET
			status = $2,
			assigned_agent = COALESCE($3, assigned_agent),
			notes = COALESCE($4, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING `+consultationColumns,
		id, u.Status, u.AssignedAgent, u.Notes,
	)
	c, err := scanConsultation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Consultation{}, apperr.NotFound("consultation not found")
		}
		return Consultation{}, fmt.Errorf("update consultation status: %w", err)
	}
	return c, nil
}

// ListBooked returns consultations that still occupy their slot.
func (r *Repo) ListBooked(ctx context.Context, fromDate, toDate string, excludeID uuid.UUID) ([]Consultation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+consultationColumns+` FROM consultations
		WHERE consultation_date BETWEEN $1 AND $2
		AND status NOT IN ('cancelled', 'no_show')
		AND id <> $3
		ORDER BY consultation_date, consultation_time`, fromDate, toDate, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list booked consultations: %w", err)
	}
	return collect(rows)
}

// FindOpenByPhone returns the latest consultation of phone that has not happened yet.
func (r *Repo) FindOpenByPhone(ctx context.Context, phone string) (Consultation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+consultationColumns+` FROM consultations
		WHERE phone = $1 AND status IN ('scheduled', 'confirmed')
		ORDER BY created_at DESC
		LIMIT 1`, phone)
	c, err := scanConsultation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Consultation{}, apperr.NotFound("no open consultation for this phone")
		}
		return Consultation{}, fmt.Errorf("find open consultation: %w", err)
	}
	return c, nil
}

// Reschedule moves a consultation to a new slot and refreshes the booking details.
func (r *Repo) Reschedule(ctx context.Context, c Consultation) (Consultation, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE consultations SET
			citizen_name = $2,
			email = $3,
			consultation_date = $4,
			consultation_time = $5,
			consultation_type = $6,
			query_category = $7,
			query_description = $8,
			preferred_language = $9,
			district = $10,
			notes = $11,
			status = 'scheduled',
			updated_at = now()
		WHERE id = $1
		RETURNING `+consultationColumns,
		c.ID, c.CitizenName, c.Email, c.ConsultationDate, c.ConsultationTime, c.ConsultationType,
		c.QueryCategory, c.QueryDescription, c.PreferredLanguage, c.District, c.Notes,
	)
	saved, err := scanConsultation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Consultation{}, apperr.NotFound("consultation not found")
		}
		return Consultation{}, fmt.Errorf("reschedule consultation: %w", err)
	}
	return saved, nil
}

// Delete removes a consultation.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("consultation not found")
	}
	return nil
}

func scanConsultation(row pgx.Row) (Consultation, error) {
	var c Consultation
	err := row.Scan(
		&c.ID, &c.Phone, &c.CitizenName, &c.Email, &c.ConsultationDate, &c.ConsultationTime, &c.ConsultationType,
		&c.QueryCategory, &c.QueryDescription, &c.PreferredLanguage, &c.District, &c.Status, &c.AssignedAgent,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func collect(rows pgx.Rows) ([]Consultation, error) {
	defer rows.Close()
	items := make([]Consultation, 0)
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultations: %w", err)
	}
	return items, nil
}
