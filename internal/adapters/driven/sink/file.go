// Package sink persists the audit artifact, either to a local JSON file or
// to an S3 object, behind the [driven.ArtifactSink] port.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// DefaultFileName is where the artifact lands when no path is configured.
const DefaultFileName = "repositories.json"

// Ensure FileSink implements the sink interface.
var _ driven.ArtifactSink = (*FileSink)(nil)

// FileSink writes the artifact as indented JSON to a local file.
type FileSink struct {
	path string
}

// NewFileSink creates a file sink. An empty path falls back to
// [DefaultFileName] in the working directory.
func NewFileSink(path string) *FileSink {
	if path == "" {
		path = DefaultFileName
	}
	return &FileSink{path: path}
}

// Write serialises the artifact and writes it to the configured path.
func (s *FileSink) Write(_ context.Context, artifact *domain.Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	logger.Info("Saved results to %s", s.path)
	return nil
}
