package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/qualityengine/internal/config"
)

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	ctx := c.Request().Context()

	profileCount, err := s.qualityService.Count(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to count quality profiles")
	}

	schemaVersion, err := s.db.SchemaVersion()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read schema version")
	}

	response := map[string]any{
		"version":       config.Version,
		"startTime":     s.startTime.Format(time.RFC3339),
		"uptimeSeconds": int64(time.Since(s.startTime).Seconds()),
		"profileCount":  profileCount,
		"schemaVersion": schemaVersion,
		"cachedParses":  s.slotsService.CachedCount(),
		"scoring": map[string]any{
			"resolutions":    s.cfg.Scoring.Resolutions,
			"sources":        s.cfg.Scoring.Sources,
			"preferredBonus": s.cfg.Scoring.PreferredBonus,
		},
	}
	if s.hub != nil {
		response["websocketClients"] = s.hub.ClientCount()
	}
	return c.JSON(http.StatusOK, response)
}
