package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes mounts the public auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/login", h.LoginForm)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterForm)
		auth.POST("/register", h.Register)
		auth.GET("/verify", h.Verify)
		auth.POST("/logout", h.Logout)
	}
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewFormResponse(form.Login(), nil))
}

func (h *Handler) Login(c *gin.Context) {
	f := form.Login()
	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	session, err := h.identitySvc.SignIn(c.Request.Context(), f.Get("email"), f.Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailNotConfirmed):
			resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashWarning,
				"Please confirm your email address before logging in. Check your inbox for a confirmation link.")
			c.JSON(http.StatusUnauthorized, resp)
		case errors.Is(err, identity.ErrInvalidCredentials):
			resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Login error: invalid credentials")
			c.JSON(http.StatusUnauthorized, resp)
		default:
			resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Login error: "+err.Error())
			c.JSON(http.StatusInternalServerError, resp)
		}
		return
	}

	resp := handler.NewSuccessResponse(session).WithFlash(model.FlashSuccess, "Logged in successfully.")
	resp.Redirect = "/dashboard"
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewFormResponse(form.Register(), nil))
}

func (h *Handler) Register(c *gin.Context) {
	f := form.Register()
	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	err := h.identitySvc.SignUp(c.Request.Context(), f.Get("name"), f.Get("email"), f.Get("password"), f.Get("role"))
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Email already registered.")
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Registration error: "+err.Error())
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/auth/login", model.FlashSuccess,
		"Registration successful! Please check your email to confirm your account before logging in."))
}

func (h *Handler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/auth/login", model.FlashDanger, "Missing verification token."))
		return
	}

	if err := h.identitySvc.VerifyEmail(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/auth/login", model.FlashDanger,
			"Verification error: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/auth/login", model.FlashSuccess,
		"Email confirmed. You can now log in."))
}

// Logout revokes the session best-effort; failures are swallowed.
func (h *Handler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		h.identitySvc.SignOut(c.Request.Context(), authHeader[7:])
	}
	c.JSON(http.StatusOK, handler.NewRedirectResponse("/auth/login", model.FlashInfo, "You have been logged out."))
}
