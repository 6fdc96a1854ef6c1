package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/portal-api/internal/handler/availability"
	"github.com/jwalitptl/portal-api/internal/handler/booking"
	"github.com/jwalitptl/portal-api/internal/handler/doctor"
	"github.com/jwalitptl/portal-api/internal/handler/user"
	"github.com/jwalitptl/portal-api/internal/middleware"
)

// Handler registers its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	availabilityH *availability.Handler
	bookingH      *booking.Handler
	userH         *user.Handler
	doctorH       *doctor.Handler
	authH         Handler
	paymentH      Handler
	healthH       Handler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	availabilityH *availability.Handler,
	bookingH *booking.Handler,
	userH *user.Handler,
	doctorH *doctor.Handler,
	authH Handler,
	paymentH Handler,
	healthH Handler,
	logger zerolog.Logger,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		availabilityH: availabilityH,
		bookingH:      bookingH,
		userH:         userH,
		doctorH:       doctorH,
		authH:         authH,
		paymentH:      paymentH,
		healthH:       healthH,
		metrics:       initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

// Setup mounts every route. Paths match the original portal server so
// existing clients keep working unchanged.
func (r *Router) Setup() {
	root := r.engine.Group("")

	root.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "doctors portal server is running")
	})

	r.healthH.RegisterRoutes(root)

	// Public routes
	r.availabilityH.RegisterRoutes(root)
	r.authH.RegisterRoutes(root)
	r.paymentH.RegisterRoutes(root)
	r.userH.RegisterRoutes(root)
	r.bookingH.RegisterRoutes(root)

	// Routes that need an authenticated caller
	protected := root.Group("")
	protected.Use(r.auth.Authenticate())
	r.bookingH.RegisterProtectedRoutes(protected)

	// Admin-only routes
	admin := root.Group("")
	admin.Use(r.auth.Authenticate(), r.auth.RequireAdmin())
	r.userH.RegisterAdminRoutes(admin)
	r.doctorH.RegisterAdminRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}

	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)

	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
