package http_server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/duccv/service-kit/config"
	"github.com/duccv/service-kit/internal/constant"
	"github.com/duccv/service-kit/internal/handler"
	"github.com/duccv/service-kit/internal/middleware"
	"github.com/duccv/service-kit/internal/model"
	"github.com/duccv/service-kit/internal/registry"
	"github.com/duccv/service-kit/internal/validation"
	"github.com/duccv/service-kit/pkg/metrics"

	_ "github.com/duccv/service-kit/docs"
)

type Server struct {
	App        *gin.Engine
	httpServer *http.Server
	notify     chan error

	address string
	timeout time.Duration
}

// New -.
func New(env *config.Env, reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		notify:  make(chan error, 1),
		address: _defaultAddr,
		timeout: _defaultTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.App = s.initGinServer(env, reg)
	s.httpServer = &http.Server{
		Addr:              s.address,
		Handler:           s.App,
		ReadHeaderTimeout: s.timeout,
	}

	return s
}

func timeoutResponse(c *gin.Context) {
	c.JSON(http.StatusRequestTimeout, constant.REQUEST_TIMEOUT)
}

func timeoutMiddleware(to time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(to),
		timeout.WithResponse(timeoutResponse),
	)
}

func (s *Server) initGinServer(env *config.Env, reg *registry.Registry) *gin.Engine {
	pathPrefix := env.AppConfig.PathPrefix
	if pathPrefix == "" {
		pathPrefix = "/api"
	}
	if env.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	filter := middleware.NewDiagnosticContextFilter()
	filter.Init(env.DiagnosticConfig)
	logging := middleware.NewLoggingMiddleware(middleware.DefaultMiddlewareConfig())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(filter.Handler())
	r.Use(logging.RequestLogger())
	r.Use(logging.ErrorLogger())

	if env.MetricsConfig.Enabled {
		m := metrics.GetMonitor(env.MetricsConfig.Path)
		m.Use(r)
	}

	if env.CORSConfig.Enabled {
		corsConfig := cors.Config{
			AllowOrigins:     env.CORSConfig.AllowedOrigins,
			AllowMethods:     env.CORSConfig.AllowedMethods,
			AllowHeaders:     append(slices.Clone(env.CORSConfig.AllowedHeaders), filter.CorrelationIDHeaderName()),
			ExposeHeaders:    append(slices.Clone(env.CORSConfig.ExposedHeaders), filter.CorrelationIDHeaderName()),
			AllowCredentials: env.CORSConfig.AllowCredentials,
			MaxAge:           time.Duration(env.CORSConfig.MaxAge) * time.Second,
		}

		r.Use(cors.New(corsConfig))
	}

	r.GET("/health", healthCheck)

	// Swagger documentation
	r.GET(pathPrefix+"/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	services := handler.NewServiceHandler(reg)
	group := r.Group(pathPrefix + "/v1/services")
	group.GET("", services.Operations)

	invoke := []gin.HandlerFunc{timeoutMiddleware(s.timeout)}
	if env.AuthConfig.Secret != "" {
		auth := middleware.NewJWTAuthMiddleware([]byte(env.AuthConfig.Secret), env.AuthConfig.Issuer)
		invoke = append(invoke, auth.Authenticate())
	}
	invoke = append(invoke,
		validation.Validate[model.InvocationPayload, model.OperationParams](),
		services.Invoke,
	)
	group.POST("/:service/:operation", invoke...)

	return r
}

// HealthCheck godoc
//
//	@Summary		Health Check
//	@Description	Returns status 200 if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func healthCheck(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start -.
func (s *Server) Start() {
	zap.L().Info("HTTP server listening", zap.String("address", s.address))
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.notify <- err
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, _defaultShutdownTimeout)
		defer cancel()
	}
	return s.httpServer.Shutdown(ctx)
}
