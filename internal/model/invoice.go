package model

import (
	"github.com/google/uuid"
)

// Invoice statuses.
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

var InvoiceStatuses = []string{
	InvoicePending,
	InvoicePaid,
	InvoiceOverdue,
	InvoiceCancelled,
}

// Invoice is a row in the invoices collection. Amount is positive
// currency, stored to 2 decimal places.
type Invoice struct {
	Base
	PatientID   uuid.UUID  `json:"patient_id" db:"patient_id"`
	InvoiceDate string     `json:"invoice_date" db:"invoice_date"`
	DueDate     string     `json:"due_date" db:"due_date"`
	Amount      float64    `json:"amount" db:"amount"`
	Status      string     `json:"status" db:"status"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty" db:"created_by"`

	// Expanded display field.
	PatientName string `json:"patient_name,omitempty" db:"patient_name"`
}

// InvoiceFilters narrows the billing list view.
type InvoiceFilters struct {
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
