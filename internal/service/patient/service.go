package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/store"
)

// Input carries the validated patient form fields. Dates are canonical
// ISO text already.
type Input struct {
	Name           string
	Email          string
	Phone          string
	DateOfBirth    string
	Gender         string
	BloodGroup     string
	Address        string
	MedicalHistory string
}

type Service struct {
	gw store.Gateway
}

func NewService(gw store.Gateway) *Service {
	return &Service{gw: gw}
}

func (s *Service) List(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := s.gw.Select(ctx, store.Patients, &patients, store.Options{}); err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	if err := s.gw.Get(ctx, store.Patients, id, &patient, store.Options{}); err != nil {
		return nil, err
	}
	return &patient, nil
}

// Choices returns the patient dropdown for record and invoice forms,
// ordered by name. Fetched fresh per request.
func (s *Service) Choices(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	err := s.gw.Select(ctx, store.Patients, &patients, store.Options{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *Service) Create(ctx context.Context, actor *model.Identity, input Input) (uuid.UUID, error) {
	now := time.Now()
	return s.gw.Insert(ctx, store.Patients, store.Row{
		"name":            input.Name,
		"email":           input.Email,
		"phone":           input.Phone,
		"date_of_birth":   input.DateOfBirth,
		"gender":          input.Gender,
		"blood_group":     input.BloodGroup,
		"address":         input.Address,
		"medical_history": input.MedicalHistory,
		"registered_by":   actor.ID,
		"created_at":      now,
		"updated_at":      now,
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) error {
	return s.gw.Update(ctx, store.Patients, id, store.Row{
		"name":            input.Name,
		"email":           input.Email,
		"phone":           input.Phone,
		"date_of_birth":   input.DateOfBirth,
		"gender":          input.Gender,
		"blood_group":     input.BloodGroup,
		"address":         input.Address,
		"medical_history": input.MedicalHistory,
		"updated_at":      time.Now(),
	})
}
