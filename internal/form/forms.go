package form

import (
	"github.com/medhq/hospital-api/internal/model"
)

// StaticChoices builds a choice set from fixed enum values.
func StaticChoices(values []string) []Choice {
	choices := make([]Choice, len(values))
	for i, v := range values {
		choices[i] = Choice{Value: v, Label: v}
	}
	return choices
}

func Login() *Form {
	return New(
		Field{Name: "email", Label: "Email", Kind: Email, Required: true},
		Field{Name: "password", Label: "Password", Kind: Password, Required: true},
	)
}

func Register() *Form {
	return New(
		Field{Name: "name", Label: "Name", Kind: Text, Required: true},
		Field{Name: "email", Label: "Email", Kind: Email, Required: true},
		Field{Name: "password", Label: "Password", Kind: Password, Required: true, MinLen: 8},
		Field{Name: "confirm_password", Label: "Confirm Password", Kind: Password, Required: true, Match: "password"},
		Field{Name: "role", Label: "Role", Kind: Select, Required: true,
			Choices: StaticChoices([]string{model.RoleAdmin, model.RoleDoctor, model.RoleStaff})},
	)
}

func PatientForm() *Form {
	return New(
		Field{Name: "name", Label: "Full Name", Kind: Text, Required: true},
		Field{Name: "email", Label: "Email", Kind: Email},
		Field{Name: "phone", Label: "Phone Number", Kind: Text, Required: true},
		Field{Name: "date_of_birth", Label: "Date of Birth", Kind: Date, Required: true},
		Field{Name: "gender", Label: "Gender", Kind: Select, Required: true, Choices: StaticChoices(model.Genders)},
		Field{Name: "blood_group", Label: "Blood Group", Kind: Select, Required: true, Choices: StaticChoices(model.BloodGroups)},
		Field{Name: "address", Label: "Address", Kind: TextArea},
		Field{Name: "medical_history", Label: "Medical History", Kind: TextArea},
	)
}

// AppointmentForm's doctor choices are populated per request from the
// users collection.
func AppointmentForm() *Form {
	return New(
		Field{Name: "patient_id", Label: "Patient ID", Kind: Hidden, Required: true},
		Field{Name: "doctor_id", Label: "Doctor", Kind: Select, Required: true},
		Field{Name: "date", Label: "Date", Kind: Date, Required: true},
		Field{Name: "time", Label: "Time", Kind: Time, Required: true},
		Field{Name: "reason", Label: "Reason for Visit", Kind: Text, Required: true},
		Field{Name: "status", Label: "Status", Kind: Select, Required: true, Choices: StaticChoices(model.AppointmentStatuses)},
		Field{Name: "notes", Label: "Notes", Kind: TextArea},
	)
}

func DoctorForm() *Form {
	return New(
		Field{Name: "name", Label: "Full Name", Kind: Text, Required: true},
		Field{Name: "email", Label: "Email", Kind: Email, Required: true},
		Field{Name: "phone", Label: "Phone Number", Kind: Text, Required: true},
		Field{Name: "specialty", Label: "Specialty", Kind: Text, Required: true},
		Field{Name: "department", Label: "Department", Kind: Select, Required: true, Choices: StaticChoices(model.Departments)},
		Field{Name: "qualification", Label: "Qualification", Kind: Text, Required: true},
		Field{Name: "experience", Label: "Experience (in years)", Kind: Text, Required: true},
		Field{Name: "bio", Label: "Professional Bio", Kind: TextArea},
	)
}

// MedicalRecordForm's doctor and patient choices are populated per
// request.
func MedicalRecordForm() *Form {
	return New(
		Field{Name: "patient_id", Label: "Patient", Kind: Select, Required: true},
		Field{Name: "doctor_id", Label: "Doctor", Kind: Select, Required: true},
		Field{Name: "record_type", Label: "Record Type", Kind: Select, Required: true, Choices: StaticChoices(model.RecordTypes)},
		Field{Name: "diagnosis", Label: "Diagnosis", Kind: Text, Required: true},
		Field{Name: "treatment", Label: "Treatment", Kind: TextArea, Required: true},
		Field{Name: "notes", Label: "Additional Notes", Kind: TextArea},
		Field{Name: "record_date", Label: "Record Date", Kind: Date, Required: true},
		Field{Name: "attachment", Label: "Attachments", Kind: File},
	)
}

// InvoiceForm's patient choices are populated per request.
func InvoiceForm() *Form {
	return New(
		Field{Name: "patient_id", Label: "Patient", Kind: Select, Required: true},
		Field{Name: "invoice_date", Label: "Invoice Date", Kind: Date, Required: true},
		Field{Name: "due_date", Label: "Due Date", Kind: Date, Required: true},
		Field{Name: "amount", Label: "Amount ($)", Kind: Decimal, Required: true, Min: 0.01, MinSet: true},
		Field{Name: "status", Label: "Status", Kind: Select, Required: true, Choices: StaticChoices(model.InvoiceStatuses)},
		Field{Name: "notes", Label: "Notes", Kind: TextArea},
	)
}

func ProfileForm() *Form {
	return New(
		Field{Name: "name", Label: "Full Name", Kind: Text, Required: true, MinLen: 2, MaxLen: 100},
		Field{Name: "email", Label: "Email", Kind: Email, Required: true},
		Field{Name: "phone", Label: "Phone Number", Kind: Text},
	)
}

func PasswordChangeForm() *Form {
	return New(
		Field{Name: "current_password", Label: "Current Password", Kind: Password, Required: true},
		Field{Name: "new_password", Label: "New Password", Kind: Password, Required: true, MinLen: 8},
		Field{Name: "confirm_password", Label: "Confirm New Password", Kind: Password, Required: true, Match: "new_password"},
	)
}
