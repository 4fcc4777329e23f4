package model

import (
	"github.com/google/uuid"
)

// Record types accepted on medical record intake.
var RecordTypes = []string{
	"consultation",
	"lab_test",
	"prescription",
	"imaging",
	"surgery",
	"discharge",
	"other",
}

// MedicalRecord is a row in the medical_records collection with an
// optional blob reference. Deleting a record best-effort deletes its
// blob; blob-deletion failure never blocks the row deletion.
type MedicalRecord struct {
	Base
	PatientID     uuid.UUID  `json:"patient_id" db:"patient_id"`
	DoctorID      uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	RecordType    string     `json:"record_type" db:"record_type"`
	Diagnosis     string     `json:"diagnosis" db:"diagnosis"`
	Treatment     string     `json:"treatment" db:"treatment"`
	Notes         string     `json:"notes,omitempty" db:"notes"`
	RecordDate    string     `json:"record_date" db:"record_date"`
	AttachmentURL string     `json:"attachment_url,omitempty" db:"attachment_url"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy     *uuid.UUID `json:"updated_by,omitempty" db:"updated_by"`

	// Expanded display fields.
	PatientName  string `json:"patient_name,omitempty" db:"patient_name"`
	PatientEmail string `json:"patient_email,omitempty" db:"patient_email"`
	PatientPhone string `json:"patient_phone,omitempty" db:"patient_phone"`
	DoctorName   string `json:"doctor_name,omitempty" db:"doctor_name"`
}
