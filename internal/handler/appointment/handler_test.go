package appointment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	appointmentService "github.com/medhq/hospital-api/internal/service/appointment"
	patientService "github.com/medhq/hospital-api/internal/service/patient"
	"github.com/medhq/hospital-api/internal/store"
	"github.com/medhq/hospital-api/internal/store/storetest"
)

func setupRouter(fake *storetest.Fake, actor *model.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(appointmentService.NewService(fake), patientService.NewService(fake))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		handler.SetIdentity(c, actor)
		c.Next()
	})
	h.RegisterRoutes(r.Group(""))
	return r
}

func postForm(r *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.Response {
	t.Helper()
	var resp handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func seedPeople(fake *storetest.Fake) (patientID, doctorID uuid.UUID) {
	patientID = uuid.New()
	fake.Seed(store.Patients, patientID, store.Row{"name": "Jane Roe"})
	doctorID = uuid.New()
	fake.Seed(store.Users, doctorID, store.Row{"name": "Dr. Smith", "role": model.RoleDoctor})
	return patientID, doctorID
}

func TestScheduleDefaultsToScheduledStatus(t *testing.T) {
	fake := storetest.New()
	patientID, doctorID := seedPeople(fake)
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleStaff}
	r := setupRouter(fake, actor)

	w := postForm(r, "/appointments/schedule", url.Values{
		"patient_id": {patientID.String()},
		"doctor_id":  {doctorID.String()},
		"date":       {"2025-09-01"},
		"time":       {"14:30:00"},
		"reason":     {"Checkup"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "/patients/"+patientID.String(), resp.Redirect)

	rows := fake.Rows(store.Appointments)
	require.Len(t, rows, 1)
	assert.Equal(t, model.AppointmentScheduled, rows[0]["status"])
	assert.Equal(t, actor.ID, rows[0]["created_by"])
	assert.Equal(t, "14:30", rows[0]["time"], "seconds are normalized away")
}

func TestScheduleRejectsUnknownDoctor(t *testing.T) {
	fake := storetest.New()
	patientID, _ := seedPeople(fake)
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleStaff}
	r := setupRouter(fake, actor)

	w := postForm(r, "/appointments/schedule", url.Values{
		"patient_id": {patientID.String()},
		"doctor_id":  {uuid.New().String()},
		"date":       {"2025-09-01"},
		"time":       {"14:30"},
		"reason":     {"Checkup"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp.Errors, "doctor_id")
	assert.Empty(t, fake.Rows(store.Appointments))
}

func TestCancelKeepsOtherFields(t *testing.T) {
	fake := storetest.New()
	patientID, doctorID := seedPeople(fake)
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleStaff}
	r := setupRouter(fake, actor)

	id := uuid.New()
	fake.Seed(store.Appointments, id, store.Row{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       "2025-09-01",
		"time":       "14:30",
		"reason":     "Checkup",
		"status":     model.AppointmentScheduled,
	})

	w := postForm(r, "/appointments/"+id.String()+"/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "/appointments/"+id.String(), resp.Redirect)

	row := fake.Row(store.Appointments, id)
	assert.Equal(t, model.AppointmentCancelled, row["status"])
	assert.Equal(t, "Checkup", row["reason"])
	assert.Equal(t, "14:30", row["time"])
}

func TestViewUnknownAppointmentRedirects(t *testing.T) {
	fake := storetest.New()
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleStaff}
	r := setupRouter(fake, actor)

	req := httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "/appointments", resp.Redirect)
	require.NotNil(t, resp.Flash)
	assert.Equal(t, model.FlashWarning, resp.Flash.Category)
}
