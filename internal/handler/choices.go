package handler

import (
	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/model"
)

// UserChoices builds a dropdown choice set from user rows.
func UserChoices(users []model.User) []form.Choice {
	choices := make([]form.Choice, len(users))
	for i, u := range users {
		choices[i] = form.Choice{Value: u.ID.String(), Label: u.Name}
	}
	return choices
}

// PatientChoices builds a dropdown choice set from patient rows.
func PatientChoices(patients []model.Patient) []form.Choice {
	choices := make([]form.Choice, len(patients))
	for i, p := range patients {
		choices[i] = form.Choice{Value: p.ID.String(), Label: p.Name}
	}
	return choices
}
