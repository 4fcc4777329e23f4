// Package store defines the narrow contract the application uses to talk
// to the external structured record store. Collections are named sets of
// rows; every call is an independent round-trip with no retry and no
// transaction spanning calls.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Collections known to the store.
const (
	Users          = "users"
	Patients       = "patients"
	Appointments   = "appointments"
	MedicalRecords = "medical_records"
	Invoices       = "invoices"
)

// ErrNotFound is returned by Get when no row matches.
var ErrNotFound = errors.New("row not found")

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Filter restricts a select or count to rows matching field <op> value.
type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

func Gte(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpGte, Value: value}
}

func Lte(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpLte, Value: value}
}

// Expand fetches display fields from a related collection inline with the
// primary result. LocalField is the foreign key column on the primary
// collection; each listed field is exposed as <prefix>_<field>.
type Expand struct {
	Collection string
	LocalField string
	Prefix     string
	Fields     []string
}

// Options shape a select: filters, related-field expansion, ordering and
// a row limit. The zero value selects everything in store order.
type Options struct {
	Filters []Filter
	Expands []Expand
	OrderBy string
	Desc    bool
	Limit   int
}

// Row is a column-to-value mapping submitted on insert or update.
type Row map[string]interface{}

// Gateway is the uniform client over the record store. Implementations
// perform no retries; a failure midway through a multi-call sequence
// leaves prior calls' effects committed.
type Gateway interface {
	// Select runs a filtered query and scans the result into dest, which
	// must be a pointer to a slice of structs with db tags.
	Select(ctx context.Context, collection string, dest interface{}, opts Options) error

	// Get fetches a single row by id into dest (a pointer to struct).
	// Returns ErrNotFound when the row is absent.
	Get(ctx context.Context, collection string, id uuid.UUID, dest interface{}, opts Options) error

	// Insert creates a row and returns its store-generated id.
	Insert(ctx context.Context, collection string, row Row) (uuid.UUID, error)

	// Update patches the named columns of the row with the given id.
	Update(ctx context.Context, collection string, id uuid.UUID, patch Row) error

	// Delete removes the row with the given id.
	Delete(ctx context.Context, collection string, id uuid.UUID) error

	// Count returns the number of rows matching the filters.
	Count(ctx context.Context, collection string, filters ...Filter) (int, error)
}
