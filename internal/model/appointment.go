package model

import (
	"github.com/google/uuid"
)

// Appointment statuses. Transitions are deliberately unconstrained: any
// value is settable via edit, cancel forces cancelled.
const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

var AppointmentStatuses = []string{
	AppointmentScheduled,
	AppointmentConfirmed,
	AppointmentCompleted,
	AppointmentCancelled,
}

// Appointment is a row in the appointments collection. Date and time are
// canonical ISO text (YYYY-MM-DD and HH:MM); the store may hand the time
// back with seconds, which the form layer tolerates on read.
type Appointment struct {
	Base
	PatientID uuid.UUID  `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	Date      string     `json:"date" db:"date"`
	Time      string     `json:"time" db:"time"`
	Reason    string     `json:"reason" db:"reason"`
	Status    string     `json:"status" db:"status"`
	Notes     string     `json:"notes,omitempty" db:"notes"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty" db:"created_by"`

	// Expanded display fields, populated on list/view queries.
	PatientName  string `json:"patient_name,omitempty" db:"patient_name"`
	PatientEmail string `json:"patient_email,omitempty" db:"patient_email"`
	PatientPhone string `json:"patient_phone,omitempty" db:"patient_phone"`
	DoctorName   string `json:"doctor_name,omitempty" db:"doctor_name"`
}
