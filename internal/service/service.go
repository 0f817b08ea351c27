// Package service implements the REST API of the contacts service on top of a persistence
// gateway.
package service

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gitlab.com/dirk.krummacker/contacts-page/internal/audit"
	"gitlab.com/dirk.krummacker/contacts-page/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-page/internal/observability"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store"
	"gitlab.com/dirk.krummacker/contacts-page/internal/validation"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Options tune the router built by SetupHttpRouter.
type Options struct {
	// Actor is recorded in the audit fields of every write made through the API.
	Actor string
	// RequestLogging logs one line per request.
	RequestLogging bool
	// CorsOrigins lists the allowed origins; "*" allows all of them.
	CorsOrigins []string
	// Tracing wraps every request in an OpenTelemetry span.
	Tracing bool
}

// Service holds the dependencies of the request handlers.
type Service struct {
	gateway   store.Gateway
	validator *validation.Validator
	log       *logger.Logger
	opts      Options
}

// New creates the service. The gateway can be backed by a real database for production use or
// by a mock database within unit tests.
func New(gateway store.Gateway, log *logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Actor == "" {
		opts.Actor = audit.DefaultActor
	}
	return &Service{
		gateway:   gateway,
		validator: validation.New(),
		log:       log,
		opts:      opts,
	}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func (s *Service) SetupHttpRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(s.recoverPanic), requestID())
	if s.opts.Tracing {
		router.Use(otelgin.Middleware(observability.ServiceName))
	}
	if s.opts.RequestLogging {
		router.Use(requestLogger(s.log))
	} else {
		s.log.Info("Turning off HTTP request logging.")
	}
	router.Use(cors.New(corsConfig(s.opts.CorsOrigins)))

	api := router.Group("/api")
	api.GET("/contacts", s.findContacts)
	api.POST("/contacts", s.createContact)
	api.GET("/contacts/:id", s.findContactByID)
	api.PUT("/contacts/:id", s.updateContactByID)
	api.DELETE("/contacts/:id", s.deleteContactByID)

	api.GET("/categories", s.findCategories)
	api.POST("/categories", s.createCategory)
	api.DELETE("/categories/:id", s.deleteCategoryByID)
	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", headerRequestID}
	config.ExposeHeaders = []string{"Location", headerRequestID}
	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

// parseID reads the id parameter of the request URL. An id that is not a number cannot exist, so
// the request is answered with NOT FOUND without asking the database.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// bindBody decodes the JSON request body into obj. An absent body, a literal null and malformed
// JSON are answered with BAD REQUEST.
func bindBody(c *gin.Context, obj any) bool {
	body, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "unreadable request body"})
		return false
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "request body is required"})
		return false
	}
	if err := binding.JSON.BindBody(body, obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return false
	}
	return true
}

// internalError logs a failed storage operation and answers with a generic message.
func (s *Service) internalError(c *gin.Context, err error) {
	s.log.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"request_id", c.GetString(requestIDKey),
		"error", err,
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

func (s *Service) recoverPanic(c *gin.Context, recovered any) {
	s.log.Error("panic while serving request",
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
		"panic", recovered,
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
