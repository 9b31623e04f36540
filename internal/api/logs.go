//nolint:revive // Package name 'api' is intentionally generic for the HTTP API layer
package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/qualityengine/internal/logger"
)

// LogsProvider provides access to log data.
type LogsProvider interface {
	QueryLogs(filter logger.LogFilter) []logger.LogEntry
	GetLogFilePath() string
}

// LogsHandlers handles log-related HTTP endpoints.
type LogsHandlers struct {
	provider LogsProvider
}

// NewLogsHandlers creates a new logs handlers instance.
func NewLogsHandlers(provider LogsProvider) *LogsHandlers {
	return &LogsHandlers{provider: provider}
}

// RegisterRoutes registers log routes on the given group.
func (h *LogsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentLogs)
	g.GET("/download", h.DownloadLogFile)
}

// GetRecentLogs returns recent log entries from the ring buffer.
// GET /api/v1/system/logs?level=warn&component=slots&limit=100
func (h *LogsHandlers) GetRecentLogs(c echo.Context) error {
	filter := logger.LogFilter{
		MinLevel:  c.QueryParam("level"),
		Component: c.QueryParam("component"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = limit
	}

	logs := h.provider.QueryLogs(filter)
	if logs == nil {
		logs = []logger.LogEntry{}
	}
	return c.JSON(http.StatusOK, logs)
}

// DownloadLogFile serves the current log file for download.
// GET /api/v1/system/logs/download
func (h *LogsHandlers) DownloadLogFile(c echo.Context) error {
	logPath := h.provider.GetLogFilePath()
	if logPath == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no log file configured")
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return echo.NewHTTPError(http.StatusNotFound, "log file not found")
	}

	return c.Attachment(logPath, logger.LogFileName)
}

// QueryLogs delegates to the configured provider so routes can be
// registered before the logger is attached.
func (s *Server) QueryLogs(filter logger.LogFilter) []logger.LogEntry {
	if s.logsProvider == nil {
		return []logger.LogEntry{}
	}
	return s.logsProvider.QueryLogs(filter)
}

// GetLogFilePath returns the provider's log file, "" when there is none.
func (s *Server) GetLogFilePath() string {
	if s.logsProvider == nil {
		return ""
	}
	return s.logsProvider.GetLogFilePath()
}
