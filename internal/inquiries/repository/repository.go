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

const (
	inquiryColumns = `id, phone, citizen_name, email, organization, scheme_interest, budget_range, lead_type, source,
	citizen_id, lead_score, icp_match_score, qualification_status, score_version, engagement_score,
	past_benefit_count, total_benefit, last_interaction_at, qualified_at, status, call_outcome, call_count,
	last_call_at, follow_up_date, assigned_to, notes, created_at, updated_at`

	activeStatuses = `status IN ('open', 'contacted')`

	msgInquiryNotFound = "inquiry not found"
)

// Repo implements Repository over PostgreSQL.
type Repo struct {
	db db.Querier
}

// New creates a new inquiries repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

var _ Repository = (*Repo)(nil)

// Create inserts an inquiry together with its first qualification.
func (r *Repo) Create(ctx context.Context, inq Inquiry) (Inquiry, error) {
	if inq.ID == uuid.Nil {
		inq.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO scheme_inquiries (id, phone, citizen_name, email, organization, scheme_interest, budget_range,
			lead_type, source, citizen_id, lead_score, icp_match_score, qualification_status, score_version,
			engagement_score, past_benefit_count, total_benefit, last_interaction_at, qualified_at, status,
			assigned_to, notes, follow_up_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING `+inquiryColumns,
		inq.ID, inq.Phone, inq.CitizenName, inq.Email, inq.Organization, inq.SchemeInterest, inq.BudgetRange,
		inq.LeadType, inq.Source, inq.CitizenID, inq.LeadScore, inq.ICPMatchScore, inq.QualificationStatus,
		inq.ScoreVersion, inq.EngagementScore, inq.PastBenefitCount, inq.TotalBenefit, inq.LastInteractionAt,
		inq.QualifiedAt, inq.Status, inq.AssignedTo, inq.Notes, inq.FollowUpDate,
	)
	saved, err := scanInquiry(row)
	if err != nil {
		return Inquiry{}, fmt.Errorf("create inquiry: %w", err)
	}
	return saved, nil
}

// GetByID loads an inquiry.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Inquiry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+inquiryColumns+` FROM scheme_inquiries WHERE id = $1`, id)
	inq, err := scanInquiry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, apperr.NotFound(msgInquiryNotFound)
		}
		return Inquiry{}, fmt.Errorf("get inquiry: %w", err)
	}
	return inq, nil
}

// List returns a page of inquiries, newest first, and the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Inquiry, int, error) {
	where := `
		WHERE ($1::text IS NULL OR status = $1)
		AND ($2::text IS NULL OR qualification_status = $2)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM scheme_inquiries`+where,
		params.Status, params.QualificationStatus,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+inquiryColumns+` FROM scheme_inquiries`+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		params.Status, params.QualificationStatus, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByPhone returns every inquiry for phone, newest first.
func (r *Repo) ListByPhone(ctx context.Context, phone string) ([]Inquiry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+inquiryColumns+` FROM scheme_inquiries
		WHERE phone = $1 ORDER BY created_at DESC`, phone)
	if err != nil {
		return nil, fmt.Errorf("list inquiries by phone: %w", err)
	}
	return collect(rows)
}

// ListActiveByPhone returns the open and contacted inquiries of phone.
func (r *Repo) ListActiveByPhone(ctx context.Context, phone string) ([]Inquiry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+inquiryColumns+` FROM scheme_inquiries
		WHERE phone = $1 AND `+activeStatuses+` ORDER BY created_at DESC`, phone)
	if err != nil {
		return nil, fmt.Errorf("list active inquiries by phone: %w", err)
	}
	return collect(rows)
}

// ListActiveIDs returns open and contacted inquiry IDs, stalest score first.
func (r *Repo) ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM scheme_inquiries
		WHERE `+activeStatuses+`
		ORDER BY qualified_at ASC NULLS FIRST
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list active inquiry ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan inquiry id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiry ids: %w", err)
	}
	return ids, nil
}

// HighPriorityQueue returns the outbound follow-up work queue.
func (r *Repo) HighPriorityQueue(ctx context.Context, limit int) ([]Inquiry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+inquiryColumns+` FROM scheme_inquiries
		WHERE qualification_status IN ('high_priority', 'qualified')
		AND `+activeStatuses+`
		ORDER BY lead_score DESC, created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("high priority queue: %w", err)
	}
	return collect(rows)
}

// Stats aggregates the pipeline counters in one pass.
func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE qualification_status IN ('qualified', 'high_priority')),
			COUNT(*) FILTER (WHERE qualification_status = 'high_priority'),
			COUNT(*) FILTER (WHERE status = 'open'),
			COUNT(*) FILTER (WHERE status = 'contacted'),
			COUNT(*) FILTER (WHERE status = 'converted'),
			COALESCE(AVG(lead_score), 0)::float8,
			COALESCE(AVG(icp_match_score), 0)::float8
		FROM scheme_inquiries`,
	).Scan(&s.Total, &s.Qualified, &s.HighPriority, &s.Open, &s.Contacted, &s.Converted, &s.AvgLeadScore, &s.AvgICPMatchScore)
	if err != nil {
		return Stats{}, fmt.Errorf("inquiry stats: %w", err)
	}
	return s, nil
}

// previousQualification locks the row and exposes the qualification status it
// held before the statement, so concurrent writers observe each other's
// transitions in commit order.
const previousQualification = `
	WITH prev AS (
		SELECT id AS prev_id, qualification_status AS prev_status
		FROM scheme_inquiries WHERE id = $1 FOR UPDATE
	)`

// Update applies a partial update together with the qualification computed
// for the updated fields, in one statement. It returns the stored row and
// the qualification status it replaced.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, p UpdateParams, q Qualification) (Inquiry, string, error) {
	row := r.db.QueryRow(ctx, previousQualification+`
		UPDATE scheme_inquiries SET
			citizen_name = COALESCE($2, citizen_name),
			email = `+clearable("$3", "email")+`,
			organization = `+clearable("$4", "organization")+`,
			scheme_interest = `+clearable("$5", "scheme_interest")+`,
			budget_range = `+clearable("$6", "budget_range")+`,
			lead_type = `+clearable("$7", "lead_type")+`,
			source = COALESCE($8, source),
			status = COALESCE($9, status),
			assigned_to = `+clearable("$10", "assigned_to")+`,
			notes = COALESCE($11, notes),
			follow_up_date = COALESCE($12, follow_up_date),
			citizen_id = $13,
			lead_score = $14,
			icp_match_score = $15,
			qualification_status = $16,
			score_version = $17,
			engagement_score = $18,
			past_benefit_count = $19,
			total_benefit = $20,
			last_interaction_at = $21,
			qualified_at = $22,
			updated_at = now()
		FROM prev
		WHERE id = prev.prev_id
		RETURNING `+inquiryColumns+`, prev.prev_status`,
		id, p.CitizenName, p.Email, p.Organization, p.SchemeInterest, p.BudgetRange, p.LeadType, p.Source,
		p.Status, p.AssignedTo, p.Notes, p.FollowUpDate,
		q.CitizenID, q.LeadScore, q.ICPMatchScore, q.QualificationStatus, q.ScoreVersion, q.EngagementScore,
		q.PastBenefitCount, q.TotalBenefit, q.LastInteractionAt, q.QualifiedAt,
	)
	return r.scanWithPrevious(row, "update inquiry")
}

// ApplyQualification stores a fresh engine result and returns the row with
// the qualification status it replaced. Concurrent runs for the same inquiry
// resolve last-write-wins.
func (r *Repo) ApplyQualification(ctx context.Context, id uuid.UUID, q Qualification) (Inquiry, string, error) {
	row := r.db.QueryRow(ctx, previousQualification+`
		UPDATE scheme_inquiries SET
			citizen_id = $2,
			lead_score = $3,
			icp_match_score = $4,
			qualification_status = $5,
			score_version = $6,
			engagement_score = $7,
			past_benefit_count = $8,
			total_benefit = $9,
			last_interaction_at = $10,
			qualified_at = $11,
			updated_at = now()
		FROM prev
		WHERE id = prev.prev_id
		RETURNING `+inquiryColumns+`, prev.prev_status`,
		id, q.CitizenID, q.LeadScore, q.ICPMatchScore, q.QualificationStatus, q.ScoreVersion, q.EngagementScore,
		q.PastBenefitCount, q.TotalBenefit, q.LastInteractionAt, q.QualifiedAt,
	)
	return r.scanWithPrevious(row, "apply qualification")
}

// clearable keeps column when the parameter is NULL and clears it on an
// empty string.
func clearable(param, column string) string {
	return `CASE WHEN ` + param + `::text IS NULL THEN ` + column + ` ELSE NULLIF(` + param + `::text, '') END`
}

// RecordFollowUp stores a call outcome and bumps the call counter. An
// unassigned inquiry is claimed by the operator who made the call.
func (r *Repo) RecordFollowUp(ctx context.Context, id uuid.UUID, f FollowUp) (Inquiry, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE scheme_inquiries SET
			call_outcome = $2,
			call_count = call_count + 1,
			last_call_at = $3,
			status = COALESCE($4, status),
			qualification_status = COALESCE($5, qualification_status),
			notes = COALESCE($6, notes),
			follow_up_date = COALESCE($7, follow_up_date),
			assigned_to = COALESCE(assigned_to, $8),
			updated_at = now()
		WHERE id = $1
		RETURNING `+inquiryColumns,
		id, f.CallOutcome, f.CalledAt, f.Status, f.QualificationStatus, f.Notes, f.FollowUpDate, f.CalledBy,
	)
	return r.scanOrNotFound(row, "record follow-up")
}

// Delete removes an inquiry.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM scheme_inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(msgInquiryNotFound)
	}
	return nil
}

func (r *Repo) scanOrNotFound(row pgx.Row, op string) (Inquiry, error) {
	inq, err := scanInquiry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, apperr.NotFound(msgInquiryNotFound)
		}
		return Inquiry{}, fmt.Errorf("%s: %w", op, err)
	}
	return inq, nil
}

func (r *Repo) scanWithPrevious(row pgx.Row, op string) (Inquiry, string, error) {
	var (
		inq      Inquiry
		previous string
	)
	err := row.Scan(append(inquiryFields(&inq), &previous)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, "", apperr.NotFound(msgInquiryNotFound)
		}
		return Inquiry{}, "", fmt.Errorf("%s: %w", op, err)
	}
	return inq, previous, nil
}

func scanInquiry(row pgx.Row) (Inquiry, error) {
	var i Inquiry
	err := row.Scan(inquiryFields(&i)...)
	return i, err
}

func inquiryFields(i *Inquiry) []any {
	return []any{
		&i.ID, &i.Phone, &i.CitizenName, &i.Email, &i.Organization, &i.SchemeInterest, &i.BudgetRange,
		&i.LeadType, &i.Source, &i.CitizenID, &i.LeadScore, &i.ICPMatchScore, &i.QualificationStatus,
		&i.ScoreVersion, &i.EngagementScore, &i.PastBenefitCount, &i.TotalBenefit, &i.LastInteractionAt,
		&i.QualifiedAt, &i.Status, &i.CallOutcome, &i.CallCount, &i.LastCallAt, &i.FollowUpDate,
		&i.AssignedTo, &i.Notes, &i.CreatedAt, &i.UpdatedAt,
	}
}

func collect(rows pgx.Rows) ([]Inquiry, error) {
	defer rows.Close()
	items := make([]Inquiry, 0)
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		items = append(items, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return items, nil
}
