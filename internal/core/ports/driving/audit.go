package driving

import (
	"context"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
)

// AuditStatus is a snapshot of a running audit.
type AuditStatus struct {
	RunID           string
	Running         bool
	ReposFetched    int
	ReposProcessed  int
	CodeownersFound int
	ErrorCount      int
}

// AuditRunner runs the full organisation audit and reports progress.
type AuditRunner interface {
	// Run executes the audit pipeline to completion and returns the artifact.
	Run(ctx context.Context) (*domain.Artifact, error)

	// Status returns a snapshot of the current run.
	Status() AuditStatus
}
