package repository

import (
	"context"
	"testing"
	"time"

	"saarthi_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemeColumnNames = []string{
	"id", "scheme_id", "scheme_name", "scheme_name_hindi", "ministry_department", "scheme_type", "category",
	"description", "benefit_amount", "benefit_type", "benefit_description",
	"min_age", "max_age", "gender", "income_limit", "caste_category", "occupation", "location",
	"required_documents", "application_process", "application_url", "helpline_number", "application_deadline",
	"processing_time_days", "tags", "is_active", "popularity_score", "created_at", "updated_at",
}

func ptr[T any](v T) *T { return &v }

func schemeRow(schemeID string, gender *string, popularity int) []any {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return []any{
		uuid.New(), schemeID, "PM Kisan Samman Nidhi", (*string)(nil), "Ministry of Agriculture", "Central", "Agriculture",
		"Income support for farmers", ptr(6000.0), ptr("Cash"), "Rs 6000 per year",
		ptr(18), (*int)(nil), gender, ptr(200000.0), []string{"All"}, []string{"farmer"}, []string{"All States"},
		[]string{"Aadhaar"}, "Apply online", (*string)(nil), ptr("155261"), (*time.Time)(nil),
		30, []string{"farmer", "income"}, true, popularity, now, now,
	}
}

func TestGetBySchemeIDScansEligibility(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM schemes WHERE scheme_id").
		WithArgs("pm-kisan").
		WillReturnRows(pgxmock.NewRows(schemeColumnNames).AddRow(schemeRow("pm-kisan", ptr("All"), 90)...))

	s, err := New(mock).GetBySchemeID(context.Background(), "pm-kisan")
	require.NoError(t, err)

	assert.Equal(t, "pm-kisan", s.SchemeID)
	assert.Equal(t, "All", s.Eligibility.Gender)
	require.NotNil(t, s.Eligibility.MinAge)
	assert.Equal(t, 18, *s.Eligibility.MinAge)
	assert.Nil(t, s.Eligibility.MaxAge)
	assert.Equal(t, []string{"farmer"}, s.Eligibility.Occupation)
	assert.True(t, s.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySchemeIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM schemes WHERE scheme_id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).GetBySchemeID(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListActivePassesEmptyTagsArray(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(schemeColumnNames).
		AddRow(schemeRow("pm-kisan", nil, 90)...).
		AddRow(schemeRow("pmay-g", ptr("Female"), 70)...)

	mock.ExpectQuery("WHERE is_active = true").
		WithArgs("Agriculture", []string{}).
		WillReturnRows(rows)

	got, err := New(mock).ListActive(context.Background(), CatalogFilter{Category: "Agriculture"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Eligibility.Gender)
	assert.Equal(t, "Female", got[1].Eligibility.Gender)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsUniqueViolationToConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	scheme := Scheme{SchemeID: "pm-kisan"}
	args := make([]any, len(insertArgs(scheme)))
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectQuery("INSERT INTO schemes").
		WithArgs(args...).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = New(mock).Create(context.Background(), scheme)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingScheme(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM schemes").
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = New(mock).Delete(context.Background(), "gone")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
