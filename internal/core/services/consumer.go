package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// RepositoryConsumer drains repository batches, resolves ownership and
// technology signals for each repository, and maintains the running
// per-language statistics. The statistics maps have exactly one writer
// (the consumer goroutine) and must only be read after Process returns.
type RepositoryConsumer struct {
	executor  driven.GraphQLExecutor
	org       string
	teams     *TeamDirectory
	scanDepth int
	status    *runStatus

	languageStats         map[string]domain.LanguageStat
	archivedLanguageStats map[string]domain.LanguageStat
}

// NewRepositoryConsumer creates a consumer for the given organisation and
// fetches the team directory it will consult for ownership attribution.
func NewRepositoryConsumer(
	ctx context.Context, executor driven.GraphQLExecutor, org string, status *runStatus,
) *RepositoryConsumer {
	teams := FetchTeamDirectory(ctx, executor, org)
	logger.Info("Found %d teams in organization %s", teams.Len(), org)

	return &RepositoryConsumer{
		executor:              executor,
		org:                   org,
		teams:                 teams,
		scanDepth:             DefaultTreeScanDepth,
		status:                status,
		languageStats:         make(map[string]domain.LanguageStat),
		archivedLanguageStats: make(map[string]domain.LanguageStat),
	}
}

// Process drains batches until the producer closes the channel, emitting one
// batch of records per input batch. A failure while classifying a single
// repository drops that repository and continues; it never aborts the run.
// The results channel is closed exactly once on return, signalling the
// collector that the stream is finished.
func (c *RepositoryConsumer) Process(
	ctx context.Context,
	batches <-chan []domain.RepoNode,
	results chan<- []domain.RepositoryRecord,
) {
	defer close(results)

	logger.Info("Starting repository processing")
	batchCount := 0

	for batch := range batches {
		batchCount++
		logger.Info("Processing | Batch: %d | Repos: %d", batchCount, len(batch))

		processed := make([]domain.RepositoryRecord, 0, len(batch))
		for _, node := range batch {
			logger.Debug("Processing | Repo: %s", node.Name)
			record, err := c.processRepo(ctx, node)
			if err != nil {
				logger.Error("Error processing repository %s: %v", node.Name, err)
				c.status.addErrors(1)
				continue
			}
			processed = append(processed, *record)
			c.status.addProcessed(1)
		}

		logger.Info("Batch #%d | Processed: %d", batchCount, len(processed))

		select {
		case results <- processed:
		case <-ctx.Done():
			return
		}
	}

	snap := c.status.snapshot()
	logger.Info("Completed | Repos: %d | CODEOWNERS: %d", snap.ReposProcessed, snap.CodeownersFound)
}

// LanguageStats returns the unarchived-partition language statistics.
// Only valid after Process has returned.
func (c *RepositoryConsumer) LanguageStats() map[string]domain.LanguageStat {
	return c.languageStats
}

// ArchivedLanguageStats returns the archived-partition language statistics.
// Only valid after Process has returned.
func (c *RepositoryConsumer) ArchivedLanguageStats() map[string]domain.LanguageStat {
	return c.archivedLanguageStats
}

// processRepo classifies a single repository node.
func (c *RepositoryConsumer) processRepo(
	ctx context.Context, node domain.RepoNode,
) (*domain.RepositoryRecord, error) {
	branch := "main"
	if node.DefaultBranchRef != nil && node.DefaultBranchRef.Name != "" {
		branch = node.DefaultBranchRef.Name
	}

	content := fetchCodeowners(ctx, c.executor, c.org, node.Name, branch)
	if content != "" {
		c.status.addCodeownersFound(1)
	}
	owningTeams := matchOwningTeams(content, c.org, c.teams.Teams())
	if owningTeams == nil {
		owningTeams = []string{}
	}

	lastCommit, err := lastCommitTime(node)
	if err != nil {
		return nil, err
	}

	languages, iac, err := c.foldLanguages(node)
	if err != nil {
		return nil, err
	}

	signals := classifyTree(node.Object, c.scanDepth)

	return &domain.RepositoryRecord{
		Name:        node.Name,
		URL:         node.URL,
		Visibility:  node.Visibility,
		Archived:    node.IsArchived,
		LastCommit:  lastCommit,
		OwningTeams: owningTeams,
		Technologies: domain.Technologies{
			Languages:  languages,
			IaC:        iac,
			Docs:       signals.Docs,
			Cloud:      signals.Cloud,
			Frameworks: signals.Frameworks,
			CICD:       signals.CICD,
		},
	}, nil
}

// lastCommitTime extracts the head commit timestamp of the default branch,
// or nil when the branch has no resolvable commit.
func lastCommitTime(node domain.RepoNode) (*time.Time, error) {
	if node.DefaultBranchRef == nil || node.DefaultBranchRef.Target == nil {
		return nil, nil
	}
	raw := node.DefaultBranchRef.Target.CommittedDate
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("parse last commit date %q: %w", raw, err)
	}
	return &t, nil
}

// foldLanguages computes the per-language breakdown and folds each share
// into the statistics partition matching the repository's archived flag.
func (c *RepositoryConsumer) foldLanguages(
	node domain.RepoNode,
) ([]domain.LanguageBreakdown, []string, error) {
	languages := []domain.LanguageBreakdown{}
	iac := []string{}

	edges := node.Languages.Edges
	if len(edges) == 0 {
		return languages, iac, nil
	}

	totalSize := node.Languages.TotalSize
	if totalSize <= 0 {
		return nil, nil, fmt.Errorf("languages present but total size is %d", totalSize)
	}

	stats := c.languageStats
	if node.IsArchived {
		stats = c.archivedLanguageStats
	}

	for _, edge := range edges {
		name := edge.Node.Name
		if tag, ok := iacByLanguage[name]; ok {
			iac = append(iac, tag)
		}

		percentage := float64(edge.Size) / float64(totalSize) * 100
		stats[name] = stats[name].Accumulate(percentage, edge.Size)

		languages = append(languages, domain.LanguageBreakdown{
			Name:       name,
			Size:       edge.Size,
			Percentage: percentage,
		})
	}

	return languages, iac, nil
}
