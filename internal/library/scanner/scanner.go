package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/slipstream/qualityengine/internal/library/quality"
)

// ScanError represents an error during scanning.
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ScanResult contains the parsed releases found under a folder.
type ScanResult struct {
	RootPath   string        `json:"rootPath"`
	Movies     []ParsedMedia `json:"movies"`
	Episodes   []ParsedMedia `json:"episodes"`
	Errors     []ScanError   `json:"errors"`
	TotalFiles int           `json:"totalFiles"`
	Skipped    int           `json:"skipped"`
}

// ScanProgress is sent during scanning to report progress.
type ScanProgress struct {
	CurrentPath   string `json:"currentPath"`
	FilesScanned  int    `json:"filesScanned"`
	MoviesFound   int    `json:"moviesFound"`
	EpisodesFound int    `json:"episodesFound"`
}

// ProgressCallback is called during scanning to report progress.
type ProgressCallback func(progress ScanProgress)

// Service parses every video file below a folder.
type Service struct {
	scores quality.ScoreTable
	logger *zerolog.Logger
}

// NewService creates a new scanner service.
func NewService(scores quality.ScoreTable, logger *zerolog.Logger) *Service {
	subLogger := logger.With().Str("component", "scanner").Logger()
	return &Service{
		scores: scores,
		logger: &subLogger,
	}
}

// ScanFolder walks folderPath and parses each video file it finds.
// Samples are skipped; unreadable entries are recorded and the walk goes on.
func (s *Service) ScanFolder(ctx context.Context, folderPath string, progressCb ProgressCallback) (*ScanResult, error) {
	result := &ScanResult{
		RootPath: folderPath,
		Movies:   make([]ParsedMedia, 0),
		Episodes: make([]ParsedMedia, 0),
		Errors:   make([]ScanError, 0),
	}

	s.logger.Info().Str("path", folderPath).Msg("Starting folder scan")

	err := filepath.WalkDir(folderPath, func(path string, d os.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return s.processEntry(path, d, walkErr, result, progressCb)
	})
	if err != nil {
		return result, err
	}

	s.logger.Info().
		Str("path", folderPath).
		Int("totalFiles", result.TotalFiles).
		Int("movies", len(result.Movies)).
		Int("episodes", len(result.Episodes)).
		Int("errors", len(result.Errors)).
		Int("skipped", result.Skipped).
		Msg("Folder scan completed")

	return result, nil
}

func (s *Service) processEntry(path string, d os.DirEntry, walkErr error, result *ScanResult, progressCb ProgressCallback) error {
	if walkErr != nil {
		result.Errors = append(result.Errors, ScanError{Path: path, Error: walkErr.Error()})
		return nil //nolint:nilerr // Record error but continue scanning
	}

	if d.IsDir() || !IsVideoFile(d.Name()) {
		return nil
	}

	if IsSampleFile(d.Name()) {
		result.Skipped++
		return nil
	}

	result.TotalFiles++

	info, infoErr := d.Info()
	if infoErr != nil {
		result.Errors = append(result.Errors, ScanError{Path: path, Error: infoErr.Error()})
		return nil //nolint:nilerr // Record error but continue scanning
	}

	parsed := ParsePath(path, s.scores)
	parsed.FileSize = info.Size()
	if parsed.IsTV {
		result.Episodes = append(result.Episodes, *parsed)
	} else {
		result.Movies = append(result.Movies, *parsed)
	}

	if progressCb != nil {
		progressCb(ScanProgress{
			CurrentPath:   path,
			FilesScanned:  result.TotalFiles,
			MoviesFound:   len(result.Movies),
			EpisodesFound: len(result.Episodes),
		})
	}

	return nil
}
