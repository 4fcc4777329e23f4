package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhq/hospital-api/internal/store"
)

func TestBuildSelectPlain(t *testing.T) {
	query, args, err := buildSelect(store.Patients, store.Options{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT t.* FROM patients t", query)
	assert.Empty(t, args)
}

func TestBuildSelectWithExpands(t *testing.T) {
	query, args, err := buildSelect(store.Appointments, store.Options{
		Expands: []store.Expand{
			{Collection: store.Patients, LocalField: "patient_id", Prefix: "patient", Fields: []string{"name"}},
			{Collection: store.Users, LocalField: "doctor_id", Prefix: "doctor", Fields: []string{"name"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT t.*, e0.name AS patient_name, e1.name AS doctor_name FROM appointments t "+
			"LEFT JOIN patients e0 ON t.patient_id = e0.id "+
			"LEFT JOIN users e1 ON t.doctor_id = e1.id",
		query)
	assert.Empty(t, args)
}

func TestBuildSelectWithFiltersOrderLimit(t *testing.T) {
	query, args, err := buildSelect(store.Invoices, store.Options{
		Filters: []store.Filter{
			store.Eq("status", "pending"),
			store.Gte("invoice_date", "2025-01-01"),
			store.Lte("invoice_date", "2025-12-31"),
		},
		OrderBy: "invoice_date",
		Desc:    true,
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT t.* FROM invoices t WHERE t.status = $1 AND t.invoice_date >= $2 AND t.invoice_date <= $3 "+
			"ORDER BY t.invoice_date DESC LIMIT 10",
		query)
	assert.Equal(t, []interface{}{"pending", "2025-01-01", "2025-12-31"}, args)
}

func TestBuildSelectRejectsUnknownCollection(t *testing.T) {
	_, _, err := buildSelect("pg_catalog", store.Options{})
	assert.Error(t, err)
}

func TestBuildSelectRejectsBadIdentifiers(t *testing.T) {
	_, _, err := buildSelect(store.Patients, store.Options{
		Filters: []store.Filter{store.Eq("name; DROP TABLE patients", "x")},
	})
	assert.Error(t, err)

	_, _, err = buildSelect(store.Patients, store.Options{OrderBy: "name DESC; --"})
	assert.Error(t, err)
}

func TestBuildWhereNumbersPlaceholdersFromStart(t *testing.T) {
	where, args, err := buildWhere([]store.Filter{
		store.Eq("role", "doctor"),
		store.Eq("active", true),
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, " WHERE t.role = $1 AND t.active = $2", where)
	assert.Len(t, args, 2)

	where, _, err = buildWhere(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, where)
}
