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

const (
	schemeNotFoundMessage = "scheme not found"
	schemeConflictMessage = "scheme_id already exists"

	schemeColumns = `id, scheme_id, scheme_name, scheme_name_hindi, ministry_department, scheme_type, category,
		description, benefit_amount, benefit_type, benefit_description,
		min_age, max_age, gender, income_limit, caste_category, occupation, location,
		required_documents, application_process, application_url, helpline_number, application_deadline,
		processing_time_days, tags, is_active, popularity_score, created_at, updated_at`

	catalogOrder = `ORDER BY popularity_score DESC, scheme_name ASC`
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	db db.Querier
}

// New creates a new schemes repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetBySchemeID retrieves a scheme by its public slug.
func (r *Repo) GetBySchemeID(ctx context.Context, schemeID string) (Scheme, error) {
	query := `SELECT ` + schemeColumns + ` FROM schemes WHERE scheme_id = $1`

	s, err := scanScheme(r.db.QueryRow(ctx, query, schemeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Scheme{}, apperr.NotFound(schemeNotFoundMessage)
		}
		return Scheme{}, fmt.Errorf("get scheme by scheme_id: %w", err)
	}
	return s, nil
}

// List retrieves the catalog in popularity order.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Scheme, error) {
	query := `SELECT ` + schemeColumns + ` FROM schemes
		WHERE ($1::text IS NULL OR category = $1)
			AND ($2::boolean IS NULL OR is_active = $2)
		` + catalogOrder

	rows, err := r.db.Query(ctx, query, params.Category, params.IsActive)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	defer rows.Close()

	return scanSchemes(rows)
}

// ListActive retrieves active schemes matching the catalog pre-filter.
func (r *Repo) ListActive(ctx context.Context, filter CatalogFilter) ([]Scheme, error) {
	query := `SELECT ` + schemeColumns + ` FROM schemes
		WHERE is_active = true
			AND ($1 = '' OR category = $1)
			AND (cardinality($2::text[]) = 0 OR tags && $2::text[])
		` + catalogOrder

	tags := filter.Tags
	if tags == nil {
		tags = []string{}
	}

	rows, err := r.db.Query(ctx, query, filter.Category, tags)
	if err != nil {
		return nil, fmt.Errorf("list active schemes: %w", err)
	}
	defer rows.Close()

	return scanSchemes(rows)
}

// Create inserts a new scheme.
func (r *Repo) Create(ctx context.Context, s Scheme) (Scheme, error) {
	query := `INSERT INTO schemes (` + insertColumns + `)
		VALUES (` + insertPlaceholders + `)
		RETURNING ` + schemeColumns

	created, err := scanScheme(r.db.QueryRow(ctx, query, insertArgs(s)...))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Scheme{}, apperr.Conflict(schemeConflictMessage)
		}
		return Scheme{}, fmt.Errorf("create scheme: %w", err)
	}
	return created, nil
}

// Upsert inserts a scheme or replaces the stored row with the same scheme_id.
func (r *Repo) Upsert(ctx context.Context, s Scheme) (Scheme, error) {
	query := `INSERT INTO schemes (` + insertColumns + `)
		VALUES (` + insertPlaceholders + `)
		ON CONFLICT (scheme_id) DO UPDATE SET
			scheme_name = EXCLUDED.scheme_name,
			scheme_name_hindi = EXCLUDED.scheme_name_hindi,
			ministry_department = EXCLUDED.ministry_department,
			scheme_type = EXCLUDED.scheme_type,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			benefit_amount = EXCLUDED.benefit_amount,
			benefit_type = EXCLUDED.benefit_type,
			benefit_description = EXCLUDED.benefit_description,
			min_age = EXCLUDED.min_age,
			max_age = EXCLUDED.max_age,
			gender = EXCLUDED.gender,
			income_limit = EXCLUDED.income_limit,
			caste_category = EXCLUDED.caste_category,
			occupation = EXCLUDED.occupation,
			location = EXCLUDED.location,
			required_documents = EXCLUDED.required_documents,
			application_process = EXCLUDED.application_process,
			application_url = EXCLUDED.application_url,
			helpline_number = EXCLUDED.helpline_number,
			application_deadline = EXCLUDED.application_deadline,
			processing_time_days = EXCLUDED.processing_time_days,
			tags = EXCLUDED.tags,
			is_active = EXCLUDED.is_active,
			popularity_score = EXCLUDED.popularity_score,
			updated_at = now()
		RETURNING ` + schemeColumns

	saved, err := scanScheme(r.db.QueryRow(ctx, query, insertArgs(s)...))
	if err != nil {
		return Scheme{}, fmt.Errorf("upsert scheme: %w", err)
	}
	return saved, nil
}

// Update applies a partial update.
func (r *Repo) Update(ctx context.Context, schemeID string, p UpdateParams) (Scheme, error) {
	query := `
		UPDATE schemes SET
			scheme_name = COALESCE($2, scheme_name),
			scheme_name_hindi = COALESCE($3, scheme_name_hindi),
			ministry_department = COALESCE($4, ministry_department),
			scheme_type = COALESCE($5, scheme_type),
			category = COALESCE($6, category),
			description = COALESCE($7, description),
			benefit_amount = COALESCE($8, benefit_amount),
			benefit_type = COALESCE($9, benefit_type),
			benefit_description = COALESCE($10, benefit_description),
			min_age = COALESCE($11, min_age),
			max_age = COALESCE($12, max_age),
			gender = COALESCE($13, gender),
			income_limit = COALESCE($14, income_limit),
			caste_category = COALESCE($15::text[], caste_category),
			occupation = COALESCE($16::text[], occupation),
			location = COALESCE($17::text[], location),
			required_documents = COALESCE($18::text[], required_documents),
			application_process = COALESCE($19, application_process),
			application_url = COALESCE($20, application_url),
			helpline_number = COALESCE($21, helpline_number),
			processing_time_days = COALESCE($22, processing_time_days),
			tags = COALESCE($23::text[], tags),
			is_active = COALESCE($24, is_active),
			popularity_score = COALESCE($25, popularity_score),
			updated_at = now()
		WHERE scheme_id = $1
		RETURNING ` + schemeColumns

	s, err := scanScheme(r.db.QueryRow(ctx, query,
		schemeID, p.Name, p.NameHindi, p.MinistryDepartment, p.SchemeType, p.Category, p.Description,
		p.BenefitAmount, p.BenefitType, p.BenefitDescription,
		p.MinAge, p.MaxAge, p.Gender, p.IncomeLimit, p.CasteCategory, p.Occupation, p.Location,
		p.RequiredDocuments, p.ApplicationProcess, p.ApplicationURL, p.HelplineNumber,
		p.ProcessingTimeDays, p.Tags, p.IsActive, p.PopularityScore,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Scheme{}, apperr.NotFound(schemeNotFoundMessage)
		}
		return Scheme{}, fmt.Errorf("update scheme: %w", err)
	}
	return s, nil
}

// Delete removes a scheme by scheme_id.
func (r *Repo) Delete(ctx context.Context, schemeID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM schemes WHERE scheme_id = $1`, schemeID)
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(schemeNotFoundMessage)
	}
	return nil
}

const insertColumns = `id, scheme_id, scheme_name, scheme_name_hindi, ministry_department, scheme_type, category,
	description, benefit_amount, benefit_type, benefit_description,
	min_age, max_age, gender, income_limit, caste_category, occupation, location,
	required_documents, application_process, application_url, helpline_number, application_deadline,
	processing_time_days, tags, is_active, popularity_score`

const insertPlaceholders = `$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
	$19, $20, $21, $22, $23, $24, $25, $26, $27`

func insertArgs(s Scheme) []any {
	id := s.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return []any{
		id, s.SchemeID, s.Name, s.NameHindi, s.MinistryDepartment, s.SchemeType, s.Category,
		s.Description, s.BenefitAmount, s.BenefitType, s.BenefitDescription,
		s.Eligibility.MinAge, s.Eligibility.MaxAge, nullableText(s.Eligibility.Gender), s.Eligibility.IncomeLimit,
		nonNil(s.Eligibility.CasteCategory), nonNil(s.Eligibility.Occupation), nonNil(s.Eligibility.Location),
		nonNil(s.RequiredDocuments), s.ApplicationProcess, s.ApplicationURL, s.HelplineNumber, s.ApplicationDeadline,
		s.ProcessingTimeDays, nonNil(s.Tags), s.Active, s.PopularityScore,
	}
}

func scanScheme(row pgx.Row) (Scheme, error) {
	var (
		s         Scheme
		gender    *string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&s.ID, &s.SchemeID, &s.Name, &s.NameHindi, &s.MinistryDepartment, &s.SchemeType, &s.Category,
		&s.Description, &s.BenefitAmount, &s.BenefitType, &s.BenefitDescription,
		&s.Eligibility.MinAge, &s.Eligibility.MaxAge, &gender, &s.Eligibility.IncomeLimit,
		&s.Eligibility.CasteCategory, &s.Eligibility.Occupation, &s.Eligibility.Location,
		&s.RequiredDocuments, &s.ApplicationProcess, &s.ApplicationURL, &s.HelplineNumber, &s.ApplicationDeadline,
		&s.ProcessingTimeDays, &s.Tags, &s.Active, &s.PopularityScore, &createdAt, &updatedAt,
	)
	if err != nil {
		return Scheme{}, err
	}
	if gender != nil {
		s.Eligibility.Gender = *gender
	}
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return s, nil
}

func scanSchemes(rows pgx.Rows) ([]Scheme, error) {
	results := make([]Scheme, 0)
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheme: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schemes: %w", err)
	}
	return results, nil
}

func nullableText(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
