package driven

import (
	"context"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
)

// ArtifactSink persists the final audit artifact. The core produces the
// artifact and hands it over; where it lands (file, object store) is the
// adapter's concern.
type ArtifactSink interface {
	Write(ctx context.Context, artifact *domain.Artifact) error
}
