package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/handler"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/handler/health"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/middleware"
	apperrors "github.com/shubhammalhotra1708/booking-app-sub000/pkg/errors"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	config        RouterConfig
	availabilityH Handler
	bookingH      Handler
	healthH       *health.Handler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	Mode             string
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	MaxBodyBytes     int64
	RequestTimeout   time.Duration
	MetricsEnabled   bool
	MetricsPath      string
	MetricsPrefix    string
	// Registry receives the HTTP metrics and is served on MetricsPath.
	Registry *prometheus.Registry
}

func NewRouter(
	availabilityH Handler,
	bookingH Handler,
	healthH *health.Handler,
	config RouterConfig,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}

	middleware.RegisterValidators()

	engine := gin.New()

	r := &Router{
		engine:        engine,
		config:        config,
		availabilityH: availabilityH,
		bookingH:      bookingH,
		healthH:       healthH,
		metrics:       initRouterMetrics(config.Registry, config.MetricsPrefix),
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	engine.NoRoute(func(c *gin.Context) {
		handler.RespondError(c, apperrors.NewNotFound("Route", nil))
	})

	return r
}

func (r *Router) Setup() {
	if r.healthH != nil {
		r.healthH.RegisterRoutes(r.engine)
	}
	if r.config.MetricsEnabled {
		r.engine.GET(r.config.MetricsPath, gin.WrapH(promhttp.HandlerFor(r.config.Registry, promhttp.HandlerOpts{})))
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if r.config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = r.config.MaxBodyBytes
	}

	api := r.engine.Group("/api/v1")
	api.Use(
		middleware.Timeout(r.config.RequestTimeout),
		middleware.SizeLimit(sizeLimit),
		middleware.NoStore(),
	)

	r.availabilityH.RegisterRoutes(api)
	r.bookingH.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

// Metrics initialization and middleware
func initRouterMetrics(reg prometheus.Registerer, prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "http"
	}
	f := promauto.With(reg)
	return &routerMetrics{
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route templates keep label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case c.Writer.Status() >= 500:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case c.Writer.Status() >= 400:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
