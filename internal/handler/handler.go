package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medhq/hospital-api/internal/model"
)

const identityKey = "identity"

// Handler serves the operational endpoints.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

// SetIdentity stores the resolved identity on the request context.
func SetIdentity(c *gin.Context, identity *model.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the identity resolved by the auth middleware.
// Handlers behind the middleware can rely on it being present.
func IdentityFrom(c *gin.Context) *model.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*model.Identity); ok {
			return id
		}
	}
	return nil
}

// FormValues flattens the submitted form body into the map the form
// layer consumes. Works for urlencoded and multipart submissions.
func FormValues(c *gin.Context) map[string]string {
	values := make(map[string]string)
	if err := c.Request.ParseMultipartForm(16 << 20); err != nil {
		c.Request.ParseForm()
	}
	for key, vals := range c.Request.PostForm {
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}
	if c.Request.MultipartForm != nil {
		for key, vals := range c.Request.MultipartForm.Value {
			if len(vals) > 0 {
				values[key] = vals[0]
			}
		}
	}
	return values
}
