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

var applicationColumnNames = []string{
	"id", "application_ref", "phone", "citizen_name", "scheme_id", "scheme_name", "scheme_category",
	"status", "benefit_amount", "valid_until", "recurring_enrollment", "notes", "created_at", "updated_at",
}

func TestListPendingFiltersStatusesOldestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cutoff := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	filed := cutoff.AddDate(0, 0, -3)
	mock.ExpectQuery(`status = ANY\(\$1\) AND created_at <= \$2\s+ORDER BY created_at ASC`).
		WithArgs(PendingStatuses, cutoff).
		WillReturnRows(pgxmock.NewRows(applicationColumnNames).
			AddRow(uuid.New(), "SS-1", "+919876543210", "Ramesh", "pm-kisan", "PM Kisan", "Agriculture",
				"documents_pending", (*float64)(nil), (*time.Time)(nil), false, "", filed, filed))

	items, err := New(mock).ListPending(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "documents_pending", items[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingApplication(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("DELETE FROM applications").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).Delete(context.Background(), id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRewritesEditableFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	a := Application{
		ID: uuid.New(), ApplicationRef: "SS-1", Phone: "+919876543210", CitizenName: "Ramesh",
		SchemeID: "pmay-g", SchemeName: "PM Awas Yojana Gramin", SchemeCategory: "Housing", Status: "approved",
	}
	mock.ExpectQuery("UPDATE applications SET").
		WithArgs(a.ID, a.CitizenName, a.SchemeID, a.SchemeName, a.SchemeCategory,
			a.Status, a.BenefitAmount, a.ValidUntil, a.RecurringEnrollment, a.Notes).
		WillReturnRows(pgxmock.NewRows(applicationColumnNames).
			AddRow(a.ID, a.ApplicationRef, a.Phone, a.CitizenName, a.SchemeID, a.SchemeName, a.SchemeCategory,
				a.Status, (*float64)(nil), (*time.Time)(nil), false, "", now, now))

	saved, err := New(mock).Update(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "Housing", saved.SchemeCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}
