package repository

import (
	"context"
	"errors"
	"fmt"

	"saarthi_backend/internal/qualification"
	"saarthi_backend/platform/db"

	"github.com/jackc/pgx/v5"
)

// HistoryRepository reads the phone-keyed engagement sources (citizens,
// consultations, applications) for the qualification engine.
type HistoryRepository struct {
	db db.Querier
}

// NewHistoryRepository creates a history reader.
func NewHistoryRepository(q db.Querier) *HistoryRepository {
	return &HistoryRepository{db: q}
}

var _ qualification.HistoryStore = (*HistoryRepository)(nil)

// FindCitizenByPhone returns nil, nil when no citizen is registered for phone.
func (r *HistoryRepository) FindCitizenByPhone(ctx context.Context, phone string) (*qualification.CitizenRecord, error) {
	var c qualification.CitizenRecord
	var email *string
	err := r.db.QueryRow(ctx, `SELECT id, name, email FROM citizens WHERE phone = $1`, phone).
		Scan(&c.ID, &c.Name, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find citizen by phone: %w", err)
	}
	if email != nil {
		c.Email = *email
	}
	return &c, nil
}

// ListConsultationsByPhone returns the creation times of the phone's consultations.
func (r *HistoryRepository) ListConsultationsByPhone(ctx context.Context, phone string) ([]qualification.ConsultationRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT created_at FROM consultations WHERE phone = $1`, phone)
	if err != nil {
		return nil, fmt.Errorf("list consultation history: %w", err)
	}
	defer rows.Close()

	out := make([]qualification.ConsultationRecord, 0)
	for rows.Next() {
		var rec qualification.ConsultationRecord
		if err := rows.Scan(&rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consultation history: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultation history: %w", err)
	}
	return out, nil
}

// ListBenefitRecordsByPhone returns the phone's applications as benefit records.
func (r *HistoryRepository) ListBenefitRecordsByPhone(ctx context.Context, phone string) ([]qualification.BenefitRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT benefit_amount, valid_until, recurring_enrollment, created_at
		FROM applications WHERE phone = $1`, phone)
	if err != nil {
		return nil, fmt.Errorf("list benefit history: %w", err)
	}
	defer rows.Close()

	out := make([]qualification.BenefitRecord, 0)
	for rows.Next() {
		var rec qualification.BenefitRecord
		if err := rows.Scan(&rec.Amount, &rec.ValidUntil, &rec.RecurringEnrollment, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan benefit history: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate benefit history: %w", err)
	}
	return out, nil
}
