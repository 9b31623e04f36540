package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/slipstream/qualityengine/internal/api/middleware"
	"github.com/slipstream/qualityengine/internal/api/ratelimit"
	"github.com/slipstream/qualityengine/internal/config"
	"github.com/slipstream/qualityengine/internal/database"
	"github.com/slipstream/qualityengine/internal/library/quality"
	"github.com/slipstream/qualityengine/internal/library/scanner"
	"github.com/slipstream/qualityengine/internal/library/slots"
	"github.com/slipstream/qualityengine/internal/progress"
	"github.com/slipstream/qualityengine/internal/websocket"
)

// Server handles HTTP requests for the quality engine API.
type Server struct {
	echo      *echo.Echo
	db        *database.DB
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	qualityService *quality.Service
	slotsService   *slots.Service
	scannerService *scanner.Service
	progress       *progress.Manager
	logsProvider   LogsProvider
}

// NewServer creates a new API server instance. hub may be nil, in which
// case /ws is not served.
func NewServer(db *database.DB, hub *websocket.Hub, cfg *config.Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		db:        db,
		hub:       hub,
		logger:    logger.With().Str("component", "api").Logger(),
		cfg:       cfg,
		startTime: time.Now(),
	}

	s.qualityService = quality.NewService(db.Conn(), logger)
	s.slotsService = slots.NewService(s.qualityService, slots.Config{
		Scores:       cfg.Scoring.ScoreTable(),
		Match:        cfg.MatchOptions(),
		CacheTTL:     cfg.Cache.ParseTTL,
		CacheCleanup: cfg.Cache.ParseCleanup,
	}, logger)
	s.scannerService = scanner.NewService(cfg.Scoring.ScoreTable(), &logger)

	// A nil *Hub must not end up inside the Broadcaster interface.
	var broadcaster progress.Broadcaster
	if hub != nil {
		broadcaster = hub
	}
	s.progress = progress.NewManager(broadcaster, logger)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// SetLogsProvider enables the /system/logs endpoints.
func (s *Server) SetLogsProvider(provider LogsProvider) {
	s.logsProvider = provider
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(apimw.SecurityHeaders())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}

	api := s.echo.Group("/api/v1")

	api.GET("/status", s.getStatus)

	logsHandlers := NewLogsHandlers(s)
	logsHandlers.RegisterRoutes(api.Group("/system/logs"))

	qualityHandlers := quality.NewHandlers(s.qualityService)
	qualityHandlers.RegisterRoutes(api.Group("/qualityprofiles"))

	scanHandlers := NewScanHandlers(s.scannerService, s.progress)
	scanHandlers.RegisterRoutes(api.Group("/library"))

	limiter := ratelimit.NewIPLimiter(s.cfg.Server.DebugRequestsPerMinute, time.Minute)
	debugHandlers := slots.NewDebugHandlers(s.slotsService)
	debugHandlers.RegisterDebugRoutes(api.Group("/settings/slots/debug", limiter.Middleware()))
}

// EnsureDefaults creates the seed quality profiles on an empty database.
func (s *Server) EnsureDefaults(ctx context.Context) error {
	var seed []quality.CreateProfileInput
	if path := s.cfg.Profiles.SeedFile; path != "" {
		loaded, err := quality.LoadProfilesYAML(path)
		if err != nil {
			return err
		}
		seed = loaded
	}
	return s.qualityService.EnsureDefaults(ctx, seed)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// QualityService returns the profile service.
func (s *Server) QualityService() *quality.Service {
	return s.qualityService
}
