package model

import (
	"github.com/google/uuid"
)

// Blood groups accepted on patient intake.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Genders accepted on patient intake.
var Genders = []string{"male", "female", "other"}

// Patient is a row in the patients collection. Date of birth is held as
// canonical ISO text (YYYY-MM-DD), exactly as the store returns it.
type Patient struct {
	Base
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email,omitempty" db:"email"`
	Phone          string     `json:"phone" db:"phone"`
	DateOfBirth    string     `json:"date_of_birth" db:"date_of_birth"`
	Gender         string     `json:"gender" db:"gender"`
	BloodGroup     string     `json:"blood_group" db:"blood_group"`
	Address        string     `json:"address,omitempty" db:"address"`
	MedicalHistory string     `json:"medical_history,omitempty" db:"medical_history"`
	RegisteredBy   *uuid.UUID `json:"registered_by,omitempty" db:"registered_by"`
}
