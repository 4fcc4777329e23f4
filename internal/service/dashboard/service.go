package dashboard

import (
	"context"
	"time"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/store"
)

// Stats are the landing-page counters.
type Stats struct {
	Patients          int `json:"patient_count"`
	Appointments      int `json:"appointment_count"`
	TodayAppointments int `json:"today_appointment_count"`
	Doctors           int `json:"doctor_count"`
}

type Service struct {
	gw store.Gateway
}

func NewService(gw store.Gateway) *Service {
	return &Service{gw: gw}
}

// Stats issues four independent counts; the calls run sequentially and
// any failure surfaces as a whole.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	patients, err := s.gw.Count(ctx, store.Patients)
	if err != nil {
		return nil, err
	}

	appointments, err := s.gw.Count(ctx, store.Appointments)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	todayAppointments, err := s.gw.Count(ctx, store.Appointments, store.Eq("date", today))
	if err != nil {
		return nil, err
	}

	doctors, err := s.gw.Count(ctx, store.Users, store.Eq("role", model.RoleDoctor))
	if err != nil {
		return nil, err
	}

	return &Stats{
		Patients:          patients,
		Appointments:      appointments,
		TodayAppointments: todayAppointments,
		Doctors:           doctors,
	}, nil
}
