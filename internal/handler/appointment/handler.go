package appointment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/appointment"
	"github.com/medhq/hospital-api/internal/service/patient"
	"github.com/medhq/hospital-api/internal/store"
)

type Handler struct {
	appointmentSvc *appointment.Service
	patientSvc     *patient.Service
}

func NewHandler(appointmentSvc *appointment.Service, patientSvc *patient.Service) *Handler {
	return &Handler{appointmentSvc: appointmentSvc, patientSvc: patientSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/schedule", h.ScheduleForm)
		appointments.POST("/schedule", h.Schedule)
		appointments.GET("/:id", h.ViewAppointment)
		appointments.GET("/:id/edit", h.EditAppointmentForm)
		appointments.POST("/:id/edit", h.EditAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
	}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.appointmentSvc.List(c.Request.Context())
	if err != nil {
		resp := handler.NewErrorResponse("Error fetching appointments: " + err.Error())
		resp.Data = []model.Appointment{}
		resp.Flash = &model.Flash{Category: model.FlashDanger, Message: "Error fetching appointments: " + err.Error()}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

// ScheduleForm prepares the scheduling form. When ?patient_id is given
// the form is bound to that patient up front.
func (h *Handler) ScheduleForm(c *gin.Context) {
	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/appointments", model.FlashDanger,
			"Error fetching doctors: "+err.Error()))
		return
	}
	f.Set("status", model.AppointmentScheduled)

	var data interface{}
	if raw := c.Query("patient_id"); raw != "" {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/patients", model.FlashWarning, "Invalid patient ID."))
			return
		}
		p, err := h.patientSvc.Get(c.Request.Context(), patientID)
		if err != nil {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/patients", model.FlashWarning, "Patient not found."))
			return
		}
		f.Set("patient_id", p.ID.String())
		data = p
	}

	c.JSON(http.StatusOK, handler.NewFormResponse(f, data))
}

func (h *Handler) Schedule(c *gin.Context) {
	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/appointments", model.FlashDanger,
			"Error fetching doctors: "+err.Error()))
		return
	}

	f.Bind(handler.FormValues(c))
	if f.Get("status") == "" {
		f.Set("status", model.AppointmentScheduled)
	}
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	input, err := inputFrom(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	actor := handler.IdentityFrom(c)
	if _, err := h.appointmentSvc.Create(c.Request.Context(), actor, input); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error scheduling appointment: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	target := "/appointments"
	if pid := f.Get("patient_id"); pid != "" {
		target = "/patients/" + pid
	}
	c.JSON(http.StatusOK, handler.NewRedirectResponse(target, model.FlashSuccess, "Appointment scheduled successfully!"))
}

func (h *Handler) ViewAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/appointments", model.FlashWarning, "Invalid appointment ID."))
		return
	}

	a, err := h.appointmentSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/appointments", model.FlashWarning, "Appointment not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/appointments", model.FlashDanger,
			"Error fetching appointment: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(a))
}

func (h *Handler) EditAppointmentForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/appointments", model.FlashWarning, "Invalid appointment ID."))
		return
	}

	a, err := h.appointmentSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/appointments", model.FlashWarning, "Appointment not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/appointments", model.FlashDanger,
			"Error fetching appointment: "+err.Error()))
		return
	}

	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/appointments", model.FlashDanger,
			"Error fetching doctors: "+err.Error()))
		return
	}

	appointmentTime := a.Time
	if normalized, err := form.NormalizeTime(a.Time); err == nil {
		appointmentTime = normalized
	}

	f.Set("patient_id", a.PatientID.String())
	f.Set("doctor_id", a.DoctorID.String())
	f.Set("date", a.Date)
	f.Set("time", appointmentTime)
	f.Set("reason", a.Reason)
	f.Set("status", a.Status)
	f.Set("notes", a.Notes)

	c.JSON(http.StatusOK, handler.NewFormResponse(f, a))
}

func (h *Handler) EditAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/appointments", model.FlashWarning, "Invalid appointment ID."))
		return
	}

	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/appointments", model.FlashDanger,
			"Error fetching doctors: "+err.Error()))
		return
	}

	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	input, err := inputFrom(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	if err := h.appointmentSvc.Update(c.Request.Context(), id, input); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error updating appointment: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/appointments/"+id.String(), model.FlashSuccess,
		"Appointment updated successfully!"))
}

// CancelAppointment flips the status only; no other field is touched.
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/appointments", model.FlashWarning, "Invalid appointment ID."))
		return
	}

	if err := h.appointmentSvc.Cancel(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/appointments/"+id.String(), model.FlashDanger,
			"Error cancelling appointment: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/appointments/"+id.String(), model.FlashSuccess,
		"Appointment cancelled successfully!"))
}

func (h *Handler) newForm(c *gin.Context) (*form.Form, error) {
	doctors, err := h.appointmentSvc.Doctors(c.Request.Context())
	if err != nil {
		return nil, err
	}
	f := form.AppointmentForm()
	f.SetChoices("doctor_id", handler.UserChoices(doctors))
	return f, nil
}

func inputFrom(f *form.Form) (appointment.Input, error) {
	patientID, err := uuid.Parse(f.Get("patient_id"))
	if err != nil {
		return appointment.Input{}, err
	}
	doctorID, err := uuid.Parse(f.Get("doctor_id"))
	if err != nil {
		return appointment.Input{}, err
	}
	normalized, err := form.NormalizeTime(f.Get("time"))
	if err != nil {
		return appointment.Input{}, err
	}
	return appointment.Input{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      f.Get("date"),
		Time:      normalized,
		Reason:    f.Get("reason"),
		Status:    f.Get("status"),
		Notes:     f.Get("notes"),
	}, nil
}
