package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medhq/hospital-api/internal/email"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/identity"
	"github.com/medhq/hospital-api/internal/store"
)

// Input carries the validated doctor form fields.
type Input struct {
	Name          string
	Email         string
	Phone         string
	Specialty     string
	Department    string
	Qualification string
	Experience    string
	Bio           string
}

type Service struct {
	gw          store.Gateway
	identitySvc *identity.Service
	emailSvc    email.Service
}

func NewService(gw store.Gateway, identitySvc *identity.Service, emailSvc email.Service) *Service {
	return &Service{gw: gw, identitySvc: identitySvc, emailSvc: emailSvc}
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	var doctors []model.User
	err := s.gw.Select(ctx, store.Users, &doctors, store.Options{
		Filters: []store.Filter{store.Eq("role", model.RoleDoctor)},
	})
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var doctor model.User
	if err := s.gw.Get(ctx, store.Users, id, &doctor, store.Options{}); err != nil {
		return nil, err
	}
	if doctor.Role != model.RoleDoctor {
		return nil, store.ErrNotFound
	}
	return &doctor, nil
}

// UpcomingAppointments returns the doctor's next appointments with
// patient names expanded.
func (s *Service) UpcomingAppointments(ctx context.Context, doctorID uuid.UUID, limit int) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := s.gw.Select(ctx, store.Appointments, &appointments, store.Options{
		Filters: []store.Filter{store.Eq("doctor_id", doctorID)},
		Expands: []store.Expand{{
			Collection: store.Patients,
			LocalField: "patient_id",
			Prefix:     "patient",
			Fields:     []string{"name"},
		}},
		OrderBy: "date",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Create provisions the doctor's account with a generated temporary
// password (pre-confirmed), then fills in the profile row. The two
// steps are independent: a profile failure leaves the bare account in
// place. The temp password is returned for the success message and
// also mailed, best-effort.
func (s *Service) Create(ctx context.Context, actor *model.Identity, input Input) (uuid.UUID, string, error) {
	tempPassword := uuid.New().String()[:12]

	userID, err := s.identitySvc.AdminCreateUser(ctx, input.Email, tempPassword, true)
	if err != nil {
		return uuid.Nil, "", err
	}

	err = s.gw.Update(ctx, store.Users, userID, store.Row{
		"name":          input.Name,
		"phone":         input.Phone,
		"role":          model.RoleDoctor,
		"specialty":     input.Specialty,
		"department":    input.Department,
		"qualification": input.Qualification,
		"experience":    input.Experience,
		"bio":           input.Bio,
		"created_by":    actor.ID,
		"updated_at":    time.Now(),
	})
	if err != nil {
		return uuid.Nil, "", err
	}

	if err := s.emailSvc.SendDoctorInvite(ctx, input.Email, input.Name, tempPassword); err != nil {
		log.Warn().Err(err).Str("email", input.Email).Msg("failed to send doctor invite email")
	}

	return userID, tempPassword, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) error {
	return s.gw.Update(ctx, store.Users, id, store.Row{
		"name":          input.Name,
		"email":         input.Email,
		"phone":         input.Phone,
		"specialty":     input.Specialty,
		"department":    input.Department,
		"qualification": input.Qualification,
		"experience":    input.Experience,
		"bio":           input.Bio,
		"updated_at":    time.Now(),
	})
}
