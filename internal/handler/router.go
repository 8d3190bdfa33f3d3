package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/middleware"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// API implements api.ServerInterface by embedding the individual handlers
type API struct {
	*HealthHandler
	*ProfileHandler
	*MedicineHandler
	*FeedbackHandler
	*ReportHandler
	*SafetyHandler
	*GDPRHandler
}

var _ api.ServerInterface = (*API)(nil)

// RouterOptions configures NewRouter
type RouterOptions struct {
	AllowedOrigins []string
	TracingName    string
}

// NewRouter builds the gin engine with the middleware stack and all API routes
func NewRouter(handlers *API, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.Use(middleware.RequestIDMiddleware())

	if opts.TracingName != "" {
		r.Use(otelgin.Middleware(opts.TracingName))
	}

	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	api.RegisterHandlersWithOptions(r, handlers, api.GinServerOptions{
		ErrorHandler: func(c *gin.Context, err error, statusCode int) {
			respondBindError(c, logger, err)
		},
	})

	return r
}
