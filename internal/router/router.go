package router

import (
	"github.com/gin-gonic/gin"

	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/middleware"
)

// Handler is anything that can mount its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        Handler
	dashboardH   Handler
	patientH     Handler
	appointmentH Handler
	doctorH      Handler
	recordH      Handler
	billingH     Handler
	settingsH    Handler
	h            *handler.Handler
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORSConfig     middleware.CORSConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	dashboardH Handler,
	patientH Handler,
	appointmentH Handler,
	doctorH Handler,
	recordH Handler,
	billingH Handler,
	settingsH Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		dashboardH:   dashboardH,
		patientH:     patientH,
		appointmentH: appointmentH,
		doctorH:      doctorH,
		recordH:      recordH,
		billingH:     billingH,
		settingsH:    settingsH,
		h:            h,
	}

	metrics := middleware.NewMetrics()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Collect(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	root := r.engine.Group("")

	r.setupHealthCheck(root)

	// Public routes
	r.authH.RegisterRoutes(root)

	// Protected routes
	protected := root.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.dashboardH.RegisterRoutes(rg)
	r.patientH.RegisterRoutes(rg)
	r.appointmentH.RegisterRoutes(rg)
	r.doctorH.RegisterRoutes(rg)
	r.recordH.RegisterRoutes(rg)
	r.billingH.RegisterRoutes(rg)
	r.settingsH.RegisterRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
