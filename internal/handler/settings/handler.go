package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhq/hospital-api/internal/authz"
	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/identity"
)

type Handler struct {
	identitySvc *identity.Service
}

func NewHandler(identitySvc *identity.Service) *Handler {
	return &Handler{identitySvc: identitySvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	settings := r.Group("/settings")
	{
		settings.GET("", h.Index)
		settings.GET("/profile", h.ProfileForm)
		settings.POST("/profile", h.UpdateProfile)
		settings.GET("/system", h.System)
	}
}

// Index lists the available settings sections for the current role.
func (h *Handler) Index(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	sections := []string{"profile"}
	if authz.Can(actor.Role, authz.SettingsSystem) {
		sections = append(sections, "system")
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"sections": sections}))
}

// ProfileForm serves both the profile form and the password change form
// for the signed-in user.
func (h *Handler) ProfileForm(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	user, err := h.identitySvc.GetUser(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/settings", model.FlashDanger,
			"Error fetching profile: "+err.Error()))
		return
	}

	profile := form.ProfileForm()
	profile.Set("name", user.Name)
	profile.Set("email", user.Email)
	profile.Set("phone", user.Phone)

	resp := handler.NewFormResponse(profile, gin.H{
		"user":          user,
		"password_form": form.PasswordChangeForm(),
	})
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile dispatches on the form_type field: "profile" edits the
// account details, "password" changes the password after re-checking
// the current one.
func (h *Handler) UpdateProfile(c *gin.Context) {
	values := handler.FormValues(c)
	switch values["form_type"] {
	case "password":
		h.changePassword(c, values)
	default:
		h.updateDetails(c, values)
	}
}

func (h *Handler) updateDetails(c *gin.Context, values map[string]string) {
	f := form.ProfileForm()
	f.Bind(values)
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	actor := handler.IdentityFrom(c)
	err := h.identitySvc.UpdateProfile(c.Request.Context(), actor, f.Get("name"), f.Get("phone"), f.Get("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/settings/profile", model.FlashDanger,
			"Error updating profile: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/settings/profile", model.FlashSuccess,
		"Profile updated successfully!"))
}

func (h *Handler) changePassword(c *gin.Context, values map[string]string) {
	f := form.PasswordChangeForm()
	f.Bind(values)
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	actor := handler.IdentityFrom(c)
	err := h.identitySvc.ChangePassword(c.Request.Context(), actor, f.Get("current_password"), f.Get("new_password"))
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/settings/profile", model.FlashDanger,
				"Current password is incorrect."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/settings/profile", model.FlashDanger,
			"Error changing password: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/settings/profile", model.FlashSuccess,
		"Password changed successfully!"))
}

// System is the admin-only configuration page.
func (h *Handler) System(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	if !authz.Can(actor.Role, authz.SettingsSystem) {
		c.JSON(http.StatusForbidden, handler.NewRedirectResponse("/dashboard", model.FlashWarning,
			"You do not have permission to access system settings."))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"hospital_name":     "City General Hospital",
		"appointment_slots": model.AppointmentStatuses,
		"departments":       model.Departments,
	}))
}
