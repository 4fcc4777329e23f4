package medicalrecord

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/storage"
	"github.com/medhq/hospital-api/internal/store"
)

// Input carries the validated medical record form fields.
type Input struct {
	PatientID  uuid.UUID
	DoctorID   uuid.UUID
	RecordType string
	Diagnosis  string
	Treatment  string
	Notes      string
	RecordDate string
}

// Attachment is an optional uploaded file accompanying a record.
type Attachment struct {
	Filename string
	Data     []byte
}

type Service struct {
	gw    store.Gateway
	blobs storage.Store
}

func NewService(gw store.Gateway, blobs storage.Store) *Service {
	return &Service{gw: gw, blobs: blobs}
}

func expandPatient(fields ...string) store.Expand {
	return store.Expand{
		Collection: store.Patients,
		LocalField: "patient_id",
		Prefix:     "patient",
		Fields:     fields,
	}
}

func expandDoctor() store.Expand {
	return store.Expand{
		Collection: store.Users,
		LocalField: "doctor_id",
		Prefix:     "doctor",
		Fields:     []string{"name"},
	}
}

func (s *Service) List(ctx context.Context) ([]model.MedicalRecord, error) {
	var records []model.MedicalRecord
	err := s.gw.Select(ctx, store.MedicalRecords, &records, store.Options{
		Expands: []store.Expand{expandPatient("name"), expandDoctor()},
		OrderBy: "record_date",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	err := s.gw.Get(ctx, store.MedicalRecords, id, &record, store.Options{
		Expands: []store.Expand{expandPatient("name", "email", "phone"), expandDoctor()},
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ForPatient returns a patient's records, newest first, with doctor
// names expanded.
func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID) ([]model.MedicalRecord, error) {
	var records []model.MedicalRecord
	err := s.gw.Select(ctx, store.MedicalRecords, &records, store.Options{
		Filters: []store.Filter{store.Eq("patient_id", patientID)},
		Expands: []store.Expand{expandDoctor()},
		OrderBy: "record_date",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Create uploads the attachment (when present) and then inserts the
// row. The two calls are independent: if the insert fails after a
// successful upload, the orphaned blob is left behind.
func (s *Service) Create(ctx context.Context, actor *model.Identity, input Input, attachment *Attachment) (uuid.UUID, error) {
	attachmentURL, err := s.uploadAttachment(ctx, attachment)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	return s.gw.Insert(ctx, store.MedicalRecords, store.Row{
		"patient_id":     input.PatientID,
		"doctor_id":      input.DoctorID,
		"record_type":    input.RecordType,
		"diagnosis":      input.Diagnosis,
		"treatment":      input.Treatment,
		"notes":          input.Notes,
		"record_date":    input.RecordDate,
		"attachment_url": attachmentURL,
		"created_by":     actor.ID,
		"created_at":     now,
		"updated_at":     now,
	})
}

// Update overwrites the mutable fields. A new attachment replaces the
// stored URL; the previous blob is not removed.
func (s *Service) Update(ctx context.Context, actor *model.Identity, id uuid.UUID, input Input, attachment *Attachment) error {
	var current model.MedicalRecord
	if err := s.gw.Get(ctx, store.MedicalRecords, id, &current, store.Options{}); err != nil {
		return err
	}

	attachmentURL := current.AttachmentURL
	if attachment != nil {
		url, err := s.uploadAttachment(ctx, attachment)
		if err != nil {
			return err
		}
		attachmentURL = url
	}

	return s.gw.Update(ctx, store.MedicalRecords, id, store.Row{
		"doctor_id":      input.DoctorID,
		"record_type":    input.RecordType,
		"diagnosis":      input.Diagnosis,
		"treatment":      input.Treatment,
		"notes":          input.Notes,
		"record_date":    input.RecordDate,
		"attachment_url": attachmentURL,
		"updated_by":     actor.ID,
		"updated_at":     time.Now(),
	})
}

// Delete removes the linked blob best-effort, then deletes the row.
// Blob-removal failure never blocks the deletion.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var record model.MedicalRecord
	if err := s.gw.Get(ctx, store.MedicalRecords, id, &record, store.Options{}); err != nil {
		return err
	}

	if record.AttachmentURL != "" {
		name := storage.NameFromURL(record.AttachmentURL)
		if err := s.blobs.Remove(ctx, storage.AttachmentsBucket, name); err != nil {
			log.Warn().Err(err).Str("object", name).Msg("failed to remove attachment blob")
		}
	}

	return s.gw.Delete(ctx, store.MedicalRecords, id)
}

func (s *Service) uploadAttachment(ctx context.Context, attachment *Attachment) (string, error) {
	if attachment == nil {
		return "", nil
	}
	name := storage.ObjectName(attachment.Filename)
	return s.blobs.Upload(ctx, storage.AttachmentsBucket, name, attachment.Data)
}
