package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/store"
)

// Input carries the validated invoice form fields. Amount has already
// been parsed and rounded to two places.
type Input struct {
	PatientID   uuid.UUID
	InvoiceDate string
	DueDate     string
	Amount      float64
	Status      string
	Notes       string
}

type Service struct {
	gw store.Gateway
}

func NewService(gw store.Gateway) *Service {
	return &Service{gw: gw}
}

func expandPatientName() store.Expand {
	return store.Expand{
		Collection: store.Patients,
		LocalField: "patient_id",
		Prefix:     "patient",
		Fields:     []string{"name"},
	}
}

// List returns invoices newest first, optionally narrowed by status and
// invoice date range.
func (s *Service) List(ctx context.Context, filters model.InvoiceFilters) ([]model.Invoice, error) {
	opts := store.Options{
		Expands: []store.Expand{expandPatientName()},
		OrderBy: "invoice_date",
		Desc:    true,
	}
	if filters.Status != "" {
		opts.Filters = append(opts.Filters, store.Eq("status", filters.Status))
	}
	if filters.StartDate != "" {
		opts.Filters = append(opts.Filters, store.Gte("invoice_date", filters.StartDate))
	}
	if filters.EndDate != "" {
		opts.Filters = append(opts.Filters, store.Lte("invoice_date", filters.EndDate))
	}

	var invoices []model.Invoice
	if err := s.gw.Select(ctx, store.Invoices, &invoices, opts); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := s.gw.Get(ctx, store.Invoices, id, &invoice, store.Options{
		Expands: []store.Expand{expandPatientName()},
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *Service) Create(ctx context.Context, actor *model.Identity, input Input) (uuid.UUID, error) {
	now := time.Now()
	return s.gw.Insert(ctx, store.Invoices, store.Row{
		"patient_id":   input.PatientID,
		"invoice_date": input.InvoiceDate,
		"due_date":     input.DueDate,
		"amount":       input.Amount,
		"status":       input.Status,
		"notes":        input.Notes,
		"created_by":   actor.ID,
		"created_at":   now,
		"updated_at":   now,
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) error {
	return s.gw.Update(ctx, store.Invoices, id, store.Row{
		"patient_id":   input.PatientID,
		"invoice_date": input.InvoiceDate,
		"due_date":     input.DueDate,
		"amount":       input.Amount,
		"status":       input.Status,
		"notes":        input.Notes,
		"updated_at":   time.Now(),
	})
}
