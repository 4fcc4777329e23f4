package doctor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	doctorService "github.com/medhq/hospital-api/internal/service/doctor"
	"github.com/medhq/hospital-api/internal/service/identity"
	"github.com/medhq/hospital-api/internal/store"
	"github.com/medhq/hospital-api/internal/store/storetest"
	"github.com/medhq/hospital-api/pkg/auth"
)

type stubEmail struct{}

func (stubEmail) SendVerification(ctx context.Context, to, token string) error { return nil }
func (stubEmail) SendDoctorInvite(ctx context.Context, to, name, tempPassword string) error {
	return nil
}

func setupRouter(fake *storetest.Fake, actor *model.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	identitySvc := identity.NewService(fake, jwtSvc, nil, stubEmail{}, time.Hour)
	h := NewHandler(doctorService.NewService(fake, identitySvc, stubEmail{}))

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

func validDoctorForm() url.Values {
	return url.Values{
		"name":          {"Dr. Smith"},
		"email":         {"smith@example.com"},
		"phone":         {"555-0123"},
		"specialty":     {"Cardiology"},
		"department":    {"cardiology"},
		"qualification": {"MD"},
		"experience":    {"12"},
	}
}

func TestAddDoctorForbiddenForStaff(t *testing.T) {
	fake := storetest.New()
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleStaff}
	r := setupRouter(fake, actor)

	w := postForm(r, "/doctors/add", validDoctorForm())

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "/doctors", resp.Redirect)
	require.NotNil(t, resp.Flash)
	assert.Equal(t, model.FlashWarning, resp.Flash.Category)
	assert.Empty(t, fake.Rows(store.Users), "no account may be provisioned")
}

func TestAddDoctorForbiddenForDoctors(t *testing.T) {
	fake := storetest.New()
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleDoctor}
	r := setupRouter(fake, actor)

	w := postForm(r, "/doctors/add", validDoctorForm())

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, fake.Rows(store.Users))
}

func TestAddDoctorAsAdmin(t *testing.T) {
	fake := storetest.New()
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleAdmin}
	r := setupRouter(fake, actor)

	w := postForm(r, "/doctors/add", validDoctorForm())

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "/doctors", resp.Redirect)
	require.NotNil(t, resp.Flash)
	assert.Equal(t, model.FlashSuccess, resp.Flash.Category)
	assert.Contains(t, resp.Flash.Message, "Temporary password:")
	assert.Len(t, fake.Rows(store.Users), 1)
}

func TestAddDoctorValidationFailure(t *testing.T) {
	fake := storetest.New()
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleManager}
	r := setupRouter(fake, actor)

	form := validDoctorForm()
	form.Set("email", "not-an-email")
	form.Del("specialty")
	w := postForm(r, "/doctors/add", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "specialty")
	assert.Empty(t, fake.Rows(store.Users))
}

func TestViewDoctorIncludesUpcomingAppointments(t *testing.T) {
	fake := storetest.New()
	actor := &model.Identity{ID: uuid.New(), Role: model.RoleStaff}
	r := setupRouter(fake, actor)

	doctorID := uuid.New()
	fake.Seed(store.Users, doctorID, store.Row{
		"name": "Dr. Smith",
		"role": model.RoleDoctor,
	})
	fake.Seed(store.Appointments, uuid.New(), store.Row{
		"doctor_id": doctorID,
		"date":      "2025-09-01",
	})

	req := httptest.NewRequest(http.MethodGet, "/doctors/"+doctorID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "doctor")
	assert.Contains(t, data, "appointments")
}
