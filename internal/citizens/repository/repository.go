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

const citizenColumns = `id, phone, name, email, address, age, gender, state, district, village_city, pincode,
	occupation, annual_income, caste_category, education_level, preferred_language, created_at, updated_at`

// Repo implements Repository over PostgreSQL.
type Repo struct {
	db db.Querier
}

// New creates a new citizens repository.
func New(q db.Querier) *Repo {
	return &Repo{db: q}
}

var _ Repository = (*Repo)(nil)

// GetByPhone loads the citizen registered under phone.
func (r *Repo) GetByPhone(ctx context.Context, phone string) (Citizen, error) {
	row := r.db.QueryRow(ctx, `SELECT `+citizenColumns+` FROM citizens WHERE phone = $1`, phone)
	c, err := scanCitizen(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Citizen{}, apperr.NotFound("citizen not found")
		}
		return Citizen{}, fmt.Errorf("get citizen by phone: %w", err)
	}
	return c, nil
}

// Upsert creates the citizen or merges non-nil fields into the stored row.
func (r *Repo) Upsert(ctx context.Context, c Citizen) (Citizen, bool, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.PreferredLanguage == "" {
		c.PreferredLanguage = "hindi"
	}

	query := `
		INSERT INTO citizens (id, phone, name, email, address, age, gender, state, district, village_city, pincode,
			occupation, annual_income, caste_category, education_level, preferred_language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(EXCLUDED.email, citizens.email),
			address = COALESCE(EXCLUDED.address, citizens.address),
			age = COALESCE(EXCLUDED.age, citizens.age),
			gender = COALESCE(EXCLUDED.gender, citizens.gender),
			state = COALESCE(EXCLUDED.state, citizens.state),
			district = COALESCE(EXCLUDED.district, citizens.district),
			village_city = COALESCE(EXCLUDED.village_city, citizens.village_city),
			pincode = COALESCE(EXCLUDED.pincode, citizens.pincode),
			occupation = COALESCE(EXCLUDED.occupation, citizens.occupation),
			annual_income = COALESCE(EXCLUDED.annual_income, citizens.annual_income),
			caste_category = COALESCE(EXCLUDED.caste_category, citizens.caste_category),
			education_level = COALESCE(EXCLUDED.education_level, citizens.education_level),
			preferred_language = EXCLUDED.preferred_language,
			updated_at = now()
		RETURNING ` + citizenColumns + `, (xmax = 0) AS inserted`

	var saved Citizen
	var inserted bool
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Phone, c.Name, c.Email, c.Address, c.Age, c.Gender, c.State, c.District, c.VillageCity,
		c.Pincode, c.Occupation, c.AnnualIncome, c.CasteCategory, c.EducationLevel, c.PreferredLanguage,
	).Scan(append(citizenDest(&saved), &inserted)...)
	if err != nil {
		return Citizen{}, false, fmt.Errorf("upsert citizen: %w", err)
	}
	return saved, inserted, nil
}

// List returns a page of citizens, newest first, and the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Citizen, int, error) {
	where := `
		WHERE ($1::text IS NULL OR state = $1)
		AND ($2::text IS NULL OR district = $2)
		AND ($3::text IS NULL OR name ILIKE '%' || $3 || '%' OR phone LIKE '%' || $3 || '%')`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM citizens`+where,
		params.State, params.District, params.Search,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count citizens: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+citizenColumns+` FROM citizens`+where+`
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`,
		params.State, params.District, params.Search, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list citizens: %w", err)
	}
	defer rows.Close()

	items := make([]Citizen, 0)
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan citizen: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate citizens: %w", err)
	}
	return items, total, nil
}

// DeleteByPhone removes the citizen registered under phone.
func (r *Repo) DeleteByPhone(ctx context.Context, phone string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM citizens WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("delete citizen: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("citizen not found")
	}
	return nil
}

func citizenDest(c *Citizen) []any {
	return []any{
		&c.ID, &c.Phone, &c.Name, &c.Email, &c.Address, &c.Age, &c.Gender, &c.State, &c.District,
		&c.VillageCity, &c.Pincode, &c.Occupation, &c.AnnualIncome, &c.CasteCategory, &c.EducationLevel,
		&c.PreferredLanguage, &c.CreatedAt, &c.UpdatedAt,
	}
}

func scanCitizen(row pgx.Row) (Citizen, error) {
	var c Citizen
	err := row.Scan(citizenDest(&c)...)
	return c, err
}
