package patient

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/patient"
	"github.com/medhq/hospital-api/internal/store"
)

type Handler struct {
	patientSvc *patient.Service
}

func NewHandler(patientSvc *patient.Service) *Handler {
	return &Handler{patientSvc: patientSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/add", h.AddPatientForm)
		patients.POST("/add", h.AddPatient)
		patients.GET("/:id", h.ViewPatient)
		patients.GET("/:id/edit", h.EditPatientForm)
		patients.POST("/:id/edit", h.EditPatient)
	}
}

// ListPatients renders the roster. A store failure still renders the
// page, with an empty list and the error surfaced.
func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.patientSvc.List(c.Request.Context())
	if err != nil {
		resp := handler.NewErrorResponse("Error fetching patients: " + err.Error())
		resp.Data = []model.Patient{}
		resp.Flash = &model.Flash{Category: model.FlashDanger, Message: "Error fetching patients: " + err.Error()}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) AddPatientForm(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewFormResponse(form.PatientForm(), nil))
}

func (h *Handler) AddPatient(c *gin.Context) {
	f := form.PatientForm()
	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	actor := handler.IdentityFrom(c)
	_, err := h.patientSvc.Create(c.Request.Context(), actor, inputFrom(f))
	if err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error adding patient: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/patients", model.FlashSuccess, "Patient added successfully!"))
}

func (h *Handler) ViewPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/patients", model.FlashWarning, "Invalid patient ID."))
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/patients", model.FlashWarning, "Patient not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/patients", model.FlashDanger,
			"Error fetching patient: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) EditPatientForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/patients", model.FlashWarning, "Invalid patient ID."))
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/patients", model.FlashWarning, "Patient not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/patients", model.FlashDanger,
			"Error fetching patient: "+err.Error()))
		return
	}

	f := form.PatientForm()
	f.Set("name", p.Name)
	f.Set("email", p.Email)
	f.Set("phone", p.Phone)
	f.Set("date_of_birth", p.DateOfBirth)
	f.Set("gender", p.Gender)
	f.Set("blood_group", p.BloodGroup)
	f.Set("address", p.Address)
	f.Set("medical_history", p.MedicalHistory)

	c.JSON(http.StatusOK, handler.NewFormResponse(f, p))
}

func (h *Handler) EditPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/patients", model.FlashWarning, "Invalid patient ID."))
		return
	}

	f := form.PatientForm()
	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	if err := h.patientSvc.Update(c.Request.Context(), id, inputFrom(f)); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error updating patient: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/patients/"+id.String(), model.FlashSuccess,
		"Patient updated successfully!"))
}

func inputFrom(f *form.Form) patient.Input {
	return patient.Input{
		Name:           f.Get("name"),
		Email:          f.Get("email"),
		Phone:          f.Get("phone"),
		DateOfBirth:    f.Get("date_of_birth"),
		Gender:         f.Get("gender"),
		BloodGroup:     f.Get("blood_group"),
		Address:        f.Get("address"),
		MedicalHistory: f.Get("medical_history"),
	}
}
