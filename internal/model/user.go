package model

import (
	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RoleStaff   = "staff"
	RoleManager = "manager"
)

// Departments a doctor can belong to.
var Departments = []string{
	"cardiology",
	"neurology",
	"orthopedics",
	"pediatrics",
	"general_medicine",
	"gynecology",
	"ophthalmology",
	"dermatology",
	"psychiatry",
	"ent",
}

// User is a row in the users collection. Doctors are users with
// role=doctor and the profile fields filled in.
type User struct {
	Base
	Email          string     `json:"email" db:"email"`
	Name           string     `json:"name" db:"name"`
	Phone          string     `json:"phone,omitempty" db:"phone"`
	Role           string     `json:"role" db:"role"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	EmailConfirmed bool       `json:"email_confirmed" db:"email_confirmed"`
	Active         bool       `json:"active" db:"active"`
	Specialty      string     `json:"specialty,omitempty" db:"specialty"`
	Department     string     `json:"department,omitempty" db:"department"`
	Qualification  string     `json:"qualification,omitempty" db:"qualification"`
	Experience     string     `json:"experience,omitempty" db:"experience"`
	Bio            string     `json:"bio,omitempty" db:"bio"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
}

// Identity is the resolved authenticated actor, passed explicitly into
// every handler call. Never held as a global.
type Identity struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	Active bool      `json:"active"`
}

// Session is issued on successful sign-in.
type Session struct {
	Token    string    `json:"token"`
	Identity *Identity `json:"identity"`
}
