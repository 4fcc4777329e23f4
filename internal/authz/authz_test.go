package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medhq/hospital-api/internal/model"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role    string
		action  Action
		allowed bool
	}{
		{model.RoleAdmin, DoctorCreate, true},
		{model.RoleManager, DoctorCreate, true},
		{model.RoleDoctor, DoctorCreate, false},
		{model.RoleStaff, DoctorCreate, false},

		{model.RoleAdmin, DoctorEdit, true},
		{model.RoleManager, DoctorEdit, true},
		{model.RoleStaff, DoctorEdit, false},

		{model.RoleAdmin, RecordDelete, true},
		{model.RoleDoctor, RecordDelete, true},
		{model.RoleManager, RecordDelete, false},
		{model.RoleStaff, RecordDelete, false},

		{model.RoleAdmin, SettingsSystem, true},
		{model.RoleManager, SettingsSystem, false},
		{model.RoleDoctor, SettingsSystem, false},
		{model.RoleStaff, SettingsSystem, false},

		{"", DoctorCreate, false},
		{"unknown", RecordDelete, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, Can(tc.role, tc.action),
			"role %q action %q", tc.role, tc.action)
	}
}
