package repository

import (
	"context"
	"testing"
	"time"

	"saarthi_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inquiryColumnNames = []string{
	"id", "phone", "citizen_name", "email", "organization", "scheme_interest", "budget_range", "lead_type", "source",
	"citizen_id", "lead_score", "icp_match_score", "qualification_status", "score_version", "engagement_score",
	"past_benefit_count", "total_benefit", "last_interaction_at", "qualified_at", "status", "call_outcome", "call_count",
	"last_call_at", "follow_up_date", "assigned_to", "notes", "created_at", "updated_at",
}

func inquiryRow(id uuid.UUID, status, qualification string, score int, now time.Time) []any {
	interest := "PM-KISAN"
	return []any{
		id, "+919876543210", "Ravi", (*string)(nil), (*string)(nil), &interest, (*string)(nil), (*string)(nil), "website",
		(*uuid.UUID)(nil), score, 70, qualification, "icp-2026.1", 0,
		0, float64(0), (*time.Time)(nil), &now, status, (*string)(nil), 0,
		(*time.Time)(nil), (*time.Time)(nil), (*string)(nil), "", now, now,
	}
}

func TestGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("FROM scheme_inquiries WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).GetByID(context.Background(), id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHighPriorityQueueScansRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()
	mock.ExpectQuery("qualification_status IN \\('high_priority', 'qualified'\\)").
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows(inquiryColumnNames).
			AddRow(inquiryRow(first, "open", "high_priority", 88, now)...).
			AddRow(inquiryRow(second, "contacted", "qualified", 64, now)...))

	items, err := New(mock).HighPriorityQueue(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0].ID)
	assert.Equal(t, 88, items[0].LeadScore)
	require.NotNil(t, items[0].SchemeInterest)
	assert.Equal(t, "PM-KISAN", *items[0].SchemeInterest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	mock.ExpectQuery("SELECT id FROM scheme_inquiries").
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(ids[0]).AddRow(ids[1]))

	got, err := New(mock).ListActiveIDs(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, ids, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsScansCounters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("COUNT\\(\\*\\) FILTER").
		WillReturnRows(pgxmock.NewRows([]string{"total", "qualified", "high", "open", "contacted", "converted", "avg_lead", "avg_icp"}).
			AddRow(12, 5, 2, 7, 3, 1, 48.5, 61.25))

	s, err := New(mock).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, s.Total)
	assert.Equal(t, 2, s.HighPriority)
	assert.Equal(t, 1, s.Converted)
	assert.InDelta(t, 61.25, s.AvgICPMatchScore, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFollowUpPassesOutcome(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	id := uuid.New()
	status := StatusContacted
	operator := "3f1c2b9e-7d4a-4c55-9a0e-2b8f6d1e4a77"
	mock.ExpectQuery("call_count = call_count \\+ 1").
		WithArgs(id, "answered", now, &status, (*string)(nil), (*string)(nil), (*time.Time)(nil), &operator).
		WillReturnRows(pgxmock.NewRows(inquiryColumnNames).
			AddRow(inquiryRow(id, StatusContacted, "qualified", 60, now)...))

	inq, err := New(mock).RecordFollowUp(context.Background(), id, FollowUp{
		CallOutcome: "answered",
		Status:      &status,
		CalledAt:    now,
		CalledBy:    &operator,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, inq.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingInquiry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM scheme_inquiries").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = New(mock).Delete(context.Background(), id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCitizenByPhoneMissingIsNil(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM citizens WHERE phone").
		WithArgs("+919876543210").
		WillReturnError(pgx.ErrNoRows)

	c, err := NewHistoryRepository(mock).FindCitizenByPhone(context.Background(), "+919876543210")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBenefitRecordsByPhone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	amount := 6000.0
	until := now.AddDate(1, 0, 0)
	mock.ExpectQuery("FROM applications WHERE phone").
		WithArgs("+919876543210").
		WillReturnRows(pgxmock.NewRows([]string{"benefit_amount", "valid_until", "recurring_enrollment", "created_at"}).
			AddRow(&amount, &until, true, now).
			AddRow((*float64)(nil), (*time.Time)(nil), false, now))

	records, err := NewHistoryRepository(mock).ListBenefitRecordsByPhone(context.Background(), "+919876543210")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Amount)
	assert.Equal(t, 6000.0, *records[0].Amount)
	assert.True(t, records[0].RecurringEnrollment)
	assert.Nil(t, records[1].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyQualificationReturnsReplacedStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	id := uuid.New()
	q := Qualification{LeadScore: 82, ICPMatchScore: 70, QualificationStatus: "high_priority", ScoreVersion: "icp-2026.1", QualifiedAt: now}
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(id, q.CitizenID, 82, 70, "high_priority", "icp-2026.1", 0, 0, float64(0), (*time.Time)(nil), now).
		WillReturnRows(pgxmock.NewRows(append(inquiryColumnNames, "prev_status")).
			AddRow(append(inquiryRow(id, StatusOpen, "high_priority", 82, now), "qualified")...))

	inq, previous, err := New(mock).ApplyQualification(context.Background(), id, q)
	require.NoError(t, err)
	assert.Equal(t, "high_priority", inq.QualificationStatus)
	assert.Equal(t, "qualified", previous)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWritesFieldsAndScoresTogether(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	id := uuid.New()
	empty := ""
	q := Qualification{LeadScore: 40, ICPMatchScore: 30, QualificationStatus: "unqualified", ScoreVersion: "icp-2026.1", QualifiedAt: now}

	args := []any{id}
	for i := 0; i < 11; i++ {
		args = append(args, pgxmock.AnyArg())
	}
	args = append(args, q.CitizenID, 40, 30, "unqualified", "icp-2026.1", 0, 0, float64(0), (*time.Time)(nil), now)

	mock.ExpectQuery(`email = CASE WHEN \$3::text IS NULL THEN email ELSE NULLIF\(\$3::text, ''\) END`).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows(append(inquiryColumnNames, "prev_status")).
			AddRow(append(inquiryRow(id, StatusOpen, "unqualified", 40, now), "qualified")...))

	inq, previous, err := New(mock).Update(context.Background(), id, UpdateParams{Email: &empty}, q)
	require.NoError(t, err)
	assert.Equal(t, 40, inq.LeadScore)
	assert.Equal(t, "qualified", previous)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingInquiry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	args := []any{id}
	for i := 0; i < 21; i++ {
		args = append(args, pgxmock.AnyArg())
	}
	mock.ExpectQuery("UPDATE scheme_inquiries SET").
		WithArgs(args...).
		WillReturnError(pgx.ErrNoRows)

	_, _, err = New(mock).Update(context.Background(), id, UpdateParams{}, Qualification{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateParamsApply(t *testing.T) {
	email, org := "ravi@example.com", "Panchayat"
	inq := Inquiry{CitizenName: "Ravi", Email: &email, Organization: &org, Status: StatusOpen}

	empty, interest, status := "", "PMAY", StatusContacted
	got := UpdateParams{Email: &empty, SchemeInterest: &interest, Status: &status}.Apply(inq)

	assert.Nil(t, got.Email)
	require.NotNil(t, got.Organization)
	assert.Equal(t, "Panchayat", *got.Organization)
	require.NotNil(t, got.SchemeInterest)
	assert.Equal(t, "PMAY", *got.SchemeInterest)
	assert.Equal(t, StatusContacted, got.Status)
	assert.Equal(t, "Ravi", got.CitizenName)
	require.NotNil(t, inq.Email, "Apply must not modify its input")
}
