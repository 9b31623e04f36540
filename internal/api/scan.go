package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/slipstream/qualityengine/internal/library/scanner"
	"github.com/slipstream/qualityengine/internal/progress"
)

// activityRetention is how long finished scans stay listed.
const activityRetention = time.Hour

// ScanHandlers parses every video file below a folder and reports
// progress as a scan activity.
type ScanHandlers struct {
	scanner  *scanner.Service
	progress *progress.Manager
}

// NewScanHandlers creates new scan handlers.
func NewScanHandlers(scannerService *scanner.Service, manager *progress.Manager) *ScanHandlers {
	return &ScanHandlers{scanner: scannerService, progress: manager}
}

// RegisterRoutes registers scan and activity routes.
func (h *ScanHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/scan", h.Scan)
	g.GET("/activities", h.ListActivities)
	g.GET("/activities/:id", h.GetActivity)
}

// ScanInput is the request body for a folder scan.
type ScanInput struct {
	Path string `json:"path"`
}

// ScanOutput wraps the scan result with the activity that tracked it.
type ScanOutput struct {
	ActivityID string              `json:"activityId"`
	Result     *scanner.ScanResult `json:"result"`
}

// Scan walks a folder and parses each video file in it.
// POST /api/v1/library/scan
func (h *ScanHandlers) Scan(c echo.Context) error {
	var input ScanInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	path := strings.TrimSpace(input.Path)
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return echo.NewHTTPError(http.StatusBadRequest, "path is not a readable directory")
	}

	h.progress.Prune(time.Now().Add(-activityRetention))

	id := uuid.NewString()
	h.progress.StartActivity(id, progress.ActivityTypeScan, "Scanning "+path)

	result, err := h.scanner.ScanFolder(c.Request().Context(), path, func(p scanner.ScanProgress) {
		h.progress.UpdateActivity(id, filepath.Base(p.CurrentPath), -1, map[string]any{
			"filesScanned":  p.FilesScanned,
			"moviesFound":   p.MoviesFound,
			"episodesFound": p.EpisodesFound,
		})
	})
	if err != nil {
		h.progress.FailActivity(id, err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.progress.CompleteActivity(id, fmt.Sprintf("%d files, %d movies, %d episodes",
		result.TotalFiles, len(result.Movies), len(result.Episodes)))

	return c.JSON(http.StatusOK, ScanOutput{ActivityID: id, Result: result})
}

// ListActivities returns every tracked activity, newest first.
// GET /api/v1/library/activities
func (h *ScanHandlers) ListActivities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.progress.GetAllActivities())
}

// GetActivity returns a single activity.
// GET /api/v1/library/activities/:id
func (h *ScanHandlers) GetActivity(c echo.Context) error {
	activity := h.progress.GetActivity(c.Param("id"))
	if activity == nil {
		return echo.NewHTTPError(http.StatusNotFound, "activity not found")
	}
	return c.JSON(http.StatusOK, activity)
}
