package exports

import (
	"context"
	"fmt"
	"strings"

	"saarthi_backend/platform/db"
)

// column is one exported field: its CSV header and the SQL expression
// producing its text value.
type column struct {
	header string
	expr   string
}

type entitySpec struct {
	table   string
	orderBy string
	columns []column
}

func text(col string) column { return column{header: col, expr: col} }

func list(col string) column {
	return column{header: col, expr: "array_to_string(" + col + ", ';')"}
}

var entities = map[string]entitySpec{
	"citizens": {
		table:   "citizens",
		orderBy: "created_at",
		columns: []column{
			text("id"), text("phone"), text("name"), text("email"), text("age"), text("gender"), text("state"),
			text("district"), text("village_city"), text("pincode"), text("occupation"), text("annual_income"),
			text("caste_category"), text("education_level"), text("preferred_language"), text("created_at"),
		},
	},
	"consultations": {
		table:   "consultations",
		orderBy: "created_at",
		columns: []column{
			text("id"), text("phone"), text("citizen_name"), text("email"), text("consultation_date"),
			text("consultation_time"), text("consultation_type"), text("query_category"), text("preferred_language"),
			text("district"), text("status"), text("assigned_agent"), text("created_at"),
		},
	},
	"applications": {
		table:   "applications",
		orderBy: "created_at",
		columns: []column{
			text("id"), text("application_ref"), text("phone"), text("citizen_name"), text("scheme_id"),
			text("scheme_name"), text("scheme_category"), text("status"), text("benefit_amount"), text("valid_until"),
			text("recurring_enrollment"), text("created_at"),
		},
	},
	"inquiries": {
		table:   "scheme_inquiries",
		orderBy: "created_at",
		columns: []column{
			text("id"), text("phone"), text("citizen_name"), text("email"), text("organization"), text("scheme_interest"),
			text("budget_range"), text("lead_type"), text("source"), text("lead_score"), text("icp_match_score"),
			text("qualification_status"), text("score_version"), text("engagement_score"), text("past_benefit_count"),
			text("total_benefit"), text("last_interaction_at"), text("status"), text("call_outcome"), text("call_count"),
			text("last_call_at"), text("follow_up_date"), text("assigned_to"), text("created_at"),
		},
	},
	"schemes": {
		table:   "schemes",
		orderBy: "scheme_id",
		columns: []column{
			text("scheme_id"), text("scheme_name"), text("scheme_name_hindi"), text("ministry_department"),
			text("scheme_type"), text("category"), text("benefit_amount"), text("benefit_type"), text("min_age"),
			text("max_age"), text("gender"), text("income_limit"), list("caste_category"), list("occupation"),
			list("location"), list("tags"), text("is_active"), text("popularity_score"),
		},
	},
}

// Entities lists the exportable entity names.
func Entities() []string {
	return []string{"applications", "citizens", "consultations", "inquiries", "schemes"}
}

// Repository provides data access for export operations.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// Stream runs the export query for entity, calling header once and then
// emit for every row. All values arrive as text; NULL becomes "".
func (r *Repository) Stream(ctx context.Context, entity string, header func([]string) error, emit func([]string) error) (int, error) {
	spec, ok := entities[entity]
	if !ok {
		return 0, fmt.Errorf("unknown export entity %q", entity)
	}

	headers := make([]string, len(spec.columns))
	exprs := make([]string, len(spec.columns))
	for i, c := range spec.columns {
		headers[i] = c.header
		exprs[i] = "COALESCE((" + c.expr + ")::text, '')"
	}
	if err := header(headers); err != nil {
		return 0, err
	}

	query := "SELECT " + strings.Join(exprs, ", ") + " FROM " + spec.table + " ORDER BY " + spec.orderBy
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", entity, err)
	}
	defer rows.Close()

	values := make([]string, len(spec.columns))
	dest := make([]any, len(spec.columns))
	for i := range values {
		dest[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return count, fmt.Errorf("scan %s export row: %w", entity, err)
		}
		if err := emit(values); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("iterate %s export: %w", entity, err)
	}
	return count, nil
}
