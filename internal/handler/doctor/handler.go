package doctor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/authz"
	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/doctor"
	"github.com/medhq/hospital-api/internal/store"
)

const upcomingLimit = 5

type Handler struct {
	doctorSvc *doctor.Service
}

func NewHandler(doctorSvc *doctor.Service) *Handler {
	return &Handler{doctorSvc: doctorSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/add", h.AddDoctorForm)
		doctors.POST("/add", h.AddDoctor)
		doctors.GET("/:id", h.ViewDoctor)
		doctors.GET("/:id/edit", h.EditDoctorForm)
		doctors.POST("/:id/edit", h.EditDoctor)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorSvc.List(c.Request.Context())
	if err != nil {
		resp := handler.NewErrorResponse("Error fetching doctors: " + err.Error())
		resp.Data = []model.User{}
		resp.Flash = &model.Flash{Category: model.FlashDanger, Message: "Error fetching doctors: " + err.Error()}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) AddDoctorForm(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	if !authz.Can(actor.Role, authz.DoctorCreate) {
		c.JSON(http.StatusForbidden, handler.NewRedirectResponse("/doctors", model.FlashWarning,
			"You do not have permission to add doctors."))
		return
	}
	c.JSON(http.StatusOK, handler.NewFormResponse(form.DoctorForm(), nil))
}

// AddDoctor provisions the account and surfaces the generated temporary
// password in the success message, mirroring the invite email.
func (h *Handler) AddDoctor(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	if !authz.Can(actor.Role, authz.DoctorCreate) {
		c.JSON(http.StatusForbidden, handler.NewRedirectResponse("/doctors", model.FlashWarning,
			"You do not have permission to add doctors."))
		return
	}

	f := form.DoctorForm()
	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	_, tempPassword, err := h.doctorSvc.Create(c.Request.Context(), actor, inputFrom(f))
	if err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error adding doctor: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/doctors", model.FlashSuccess,
		"Doctor added successfully! Temporary password: "+tempPassword))
}

// ViewDoctor shows the profile plus the next few appointments.
func (h *Handler) ViewDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/doctors", model.FlashWarning, "Invalid doctor ID."))
		return
	}

	d, err := h.doctorSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/doctors", model.FlashWarning, "Doctor not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/doctors", model.FlashDanger,
			"Error fetching doctor: "+err.Error()))
		return
	}

	appointments, err := h.doctorSvc.UpcomingAppointments(c.Request.Context(), id, upcomingLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/doctors", model.FlashDanger,
			"Error fetching doctor: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"doctor":       d,
		"appointments": appointments,
	}))
}

func (h *Handler) EditDoctorForm(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	if !authz.Can(actor.Role, authz.DoctorEdit) {
		c.JSON(http.StatusForbidden, handler.NewRedirectResponse("/doctors", model.FlashWarning,
			"You do not have permission to edit doctors."))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/doctors", model.FlashWarning, "Invalid doctor ID."))
		return
	}

	d, err := h.doctorSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/doctors", model.FlashWarning, "Doctor not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/doctors", model.FlashDanger,
			"Error fetching doctor: "+err.Error()))
		return
	}

	f := form.DoctorForm()
	f.Set("name", d.Name)
	f.Set("email", d.Email)
	f.Set("phone", d.Phone)
	f.Set("specialty", d.Specialty)
	f.Set("department", d.Department)
	f.Set("qualification", d.Qualification)
	f.Set("experience", d.Experience)
	f.Set("bio", d.Bio)

	c.JSON(http.StatusOK, handler.NewFormResponse(f, d))
}

func (h *Handler) EditDoctor(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	if !authz.Can(actor.Role, authz.DoctorEdit) {
		c.JSON(http.StatusForbidden, handler.NewRedirectResponse("/doctors", model.FlashWarning,
			"You do not have permission to edit doctors."))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/doctors", model.FlashWarning, "Invalid doctor ID."))
		return
	}

	f := form.DoctorForm()
	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	if err := h.doctorSvc.Update(c.Request.Context(), id, inputFrom(f)); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error updating doctor: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/doctors/"+id.String(), model.FlashSuccess,
		"Doctor updated successfully!"))
}

func inputFrom(f *form.Form) doctor.Input {
	return doctor.Input{
		Name:          f.Get("name"),
		Email:         f.Get("email"),
		Phone:         f.Get("phone"),
		Specialty:     f.Get("specialty"),
		Department:    f.Get("department"),
		Qualification: f.Get("qualification"),
		Experience:    f.Get("experience"),
		Bio:           f.Get("bio"),
	}
}
