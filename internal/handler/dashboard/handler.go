package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/dashboard"
)

type Handler struct {
	dashboardSvc *dashboard.Service
}

func NewHandler(dashboardSvc *dashboard.Service) *Handler {
	return &Handler{dashboardSvc: dashboardSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Dashboard)
}

// Dashboard renders the landing counters. A store failure still renders
// the page with zeroed stats and the error surfaced.
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.dashboardSvc.Stats(c.Request.Context())
	if err != nil {
		resp := handler.NewErrorResponse("Error loading dashboard: " + err.Error())
		resp.Data = &dashboard.Stats{}
		resp.Flash = &model.Flash{Category: model.FlashDanger, Message: "Error loading dashboard: " + err.Error()}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
