package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/store"
)

// Input carries the validated appointment form fields. Time is already
// normalized to HH:MM by the form layer.
type Input struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      string
	Time      string
	Reason    string
	Status    string
	Notes     string
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

func expandDoctorName() store.Expand {
	return store.Expand{
		Collection: store.Users,
		LocalField: "doctor_id",
		Prefix:     "doctor",
		Fields:     []string{"name"},
	}
}

func (s *Service) List(ctx context.Context) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := s.gw.Select(ctx, store.Appointments, &appointments, store.Options{
		Expands: []store.Expand{expandPatientName(), expandDoctorName()},
	})
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Get fetches one appointment with full patient contact details and the
// doctor name expanded for display.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	err := s.gw.Get(ctx, store.Appointments, id, &appointment, store.Options{
		Expands: []store.Expand{
			{
				Collection: store.Patients,
				LocalField: "patient_id",
				Prefix:     "patient",
				Fields:     []string{"name", "email", "phone"},
			},
			expandDoctorName(),
		},
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Doctors returns the doctor dropdown choices, fetched fresh per
// request.
func (s *Service) Doctors(ctx context.Context) ([]model.User, error) {
	var doctors []model.User
	err := s.gw.Select(ctx, store.Users, &doctors, store.Options{
		Filters: []store.Filter{store.Eq("role", model.RoleDoctor)},
	})
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *Service) Create(ctx context.Context, actor *model.Identity, input Input) (uuid.UUID, error) {
	now := time.Now()
	return s.gw.Insert(ctx, store.Appointments, store.Row{
		"patient_id": input.PatientID,
		"doctor_id":  input.DoctorID,
		"date":       input.Date,
		"time":       input.Time,
		"reason":     input.Reason,
		"status":     input.Status,
		"notes":      input.Notes,
		"created_by": actor.ID,
		"created_at": now,
		"updated_at": now,
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) error {
	return s.gw.Update(ctx, store.Appointments, id, store.Row{
		"doctor_id":  input.DoctorID,
		"date":       input.Date,
		"time":       input.Time,
		"reason":     input.Reason,
		"status":     input.Status,
		"notes":      input.Notes,
		"updated_at": time.Now(),
	})
}

// Cancel forces the status to cancelled with a single-field update,
// bypassing full-form validation and leaving every other field as is.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.gw.Update(ctx, store.Appointments, id, store.Row{
		"status": model.AppointmentCancelled,
	})
}
