// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"attendance-service/internal/broadcast"
	"attendance-service/internal/config"
	"attendance-service/internal/handler"
	"attendance-service/internal/middleware"
	"attendance-service/internal/reader"
	"attendance-service/internal/registry"
	"attendance-service/internal/session"
	"attendance-service/internal/sink"
	"attendance-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config      *config.Config
	logger      *zap.Logger
	supervisor  *reader.Supervisor
	store       *registry.Store
	manager     *session.Manager
	broadcaster *broadcast.Broadcaster
	writer      sink.RecordWriter
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	supervisor *reader.Supervisor,
	store *registry.Store,
	manager *session.Manager,
	broadcaster *broadcast.Broadcaster,
	writer sink.RecordWriter,
) *Router {
	return &Router{
		config:      config,
		logger:      logger,
		supervisor:  supervisor,
		store:       store,
		manager:     manager,
		broadcaster: broadcaster,
		writer:      writer,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Server))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.supervisor, r.store, r.broadcaster, r.logger)
	readerHandler := handler.NewReaderHandler(r.supervisor, r.logger)
	registryHandler := handler.NewRegistryHandler(r.store, r.writer, r.logger)
	sessionHandler := handler.NewSessionHandler(r.manager, r.logger)
	scanHandler := handler.NewScanHandler(r.broadcaster, r.logger)
	wsHandler := handler.NewWebSocketHandler(r.broadcaster, r.logger)

	// Health check routes
	healthHandler.RegisterRoutes(router)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	readerHandler.RegisterRoutes(apiV1)
	registryHandler.RegisterRoutes(apiV1)
	sessionHandler.RegisterRoutes(apiV1)
	scanHandler.RegisterRoutes(apiV1)

	// WebSocket routes
	wsHandler.RegisterRoutes(router)

	// Documentation routes
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// Swagger redirect for convenience
	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
