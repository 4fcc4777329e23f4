package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceAmountValidation(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		valid  bool
	}{
		{"zero rejected", "0", false},
		{"negative rejected", "-5", false},
		{"minimum accepted", "0.01", true},
		{"ordinary amount accepted", "150.00", true},
		{"not a number rejected", "abc", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := InvoiceForm()
			f.SetChoices("patient_id", []Choice{{Value: "p1", Label: "Jane Roe"}})
			f.Bind(map[string]string{
				"patient_id":   "p1",
				"invoice_date": "2025-03-01",
				"due_date":     "2025-03-31",
				"amount":       tc.amount,
				"status":       "pending",
			})

			valid := f.Validate()
			assert.Equal(t, tc.valid, valid)
			if !tc.valid {
				assert.Contains(t, f.Errors, "amount")
			}
		})
	}
}

func TestDecimalRoundsToTwoPlaces(t *testing.T) {
	f := InvoiceForm()
	f.Set("amount", "10.005")
	assert.Equal(t, 10.01, f.Decimal("amount"))

	f.Set("amount", "99.994")
	assert.Equal(t, 99.99, f.Decimal("amount"))
}

func TestNormalizeTime(t *testing.T) {
	withSeconds, err := NormalizeTime("14:30:00")
	assert.NoError(t, err)

	plain, err := NormalizeTime("14:30")
	assert.NoError(t, err)

	assert.Equal(t, plain, withSeconds)
	assert.Equal(t, "14:30", plain)

	_, err = NormalizeTime("25:00")
	assert.Error(t, err)
	_, err = NormalizeTime("half past two")
	assert.Error(t, err)
}

func TestSelectValidatesAgainstSuppliedChoices(t *testing.T) {
	f := AppointmentForm()
	f.SetChoices("doctor_id", []Choice{
		{Value: "d1", Label: "Dr. One"},
		{Value: "d2", Label: "Dr. Two"},
	})
	f.Bind(map[string]string{
		"patient_id": "p1",
		"doctor_id":  "d3",
		"date":       "2025-06-01",
		"time":       "09:00",
		"reason":     "Checkup",
		"status":     "scheduled",
	})

	assert.False(t, f.Validate())
	assert.Contains(t, f.Errors, "doctor_id")

	f.Set("doctor_id", "d2")
	assert.True(t, f.Validate())
}

func TestPasswordChangeFormMatch(t *testing.T) {
	f := PasswordChangeForm()
	f.Bind(map[string]string{
		"current_password": "oldpassword",
		"new_password":     "newpassword1",
		"confirm_password": "different",
	})

	assert.False(t, f.Validate())
	assert.Contains(t, f.Errors, "confirm_password")

	f.Set("confirm_password", "newpassword1")
	assert.True(t, f.Validate())
}

func TestRequiredAndFormatRules(t *testing.T) {
	f := PatientForm()
	f.Bind(map[string]string{
		"email":         "not-an-email",
		"date_of_birth": "01/02/1990",
	})

	assert.False(t, f.Validate())
	assert.Contains(t, f.Errors, "name")
	assert.Contains(t, f.Errors, "phone")
	assert.Contains(t, f.Errors, "email")
	assert.Contains(t, f.Errors, "date_of_birth")

	// Optional fields stay silent when empty.
	assert.NotContains(t, f.Errors, "address")
	assert.NotContains(t, f.Errors, "medical_history")
}

func TestBindRetainsSubmittedValues(t *testing.T) {
	f := PatientForm()
	f.Bind(map[string]string{
		"name":    "John Smith",
		"unknown": "dropped",
	})

	assert.Equal(t, "John Smith", f.Get("name"))
	assert.Empty(t, f.Get("unknown"))

	f.Validate()
	assert.Equal(t, "John Smith", f.Get("name"))
}
