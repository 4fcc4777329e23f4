// Package authz centralizes the role gate: a single predicate keyed by
// (action, role), consulted uniformly instead of ad hoc per-handler
// role-string checks.
package authz

import (
	"github.com/medhq/hospital-api/internal/model"
)

// Action names the restricted operations.
type Action string

const (
	DoctorCreate   Action = "doctor.create"
	DoctorEdit     Action = "doctor.edit"
	RecordDelete   Action = "record.delete"
	SettingsSystem Action = "settings.system"
)

var policy = map[Action][]string{
	DoctorCreate:   {model.RoleAdmin, model.RoleManager},
	DoctorEdit:     {model.RoleAdmin, model.RoleManager},
	RecordDelete:   {model.RoleAdmin, model.RoleDoctor},
	SettingsSystem: {model.RoleAdmin},
}

// Can reports whether the given role may perform the action. Unknown
// actions are denied.
func Can(role string, action Action) bool {
	for _, allowed := range policy[action] {
		if role == allowed {
			return true
		}
	}
	return false
}
