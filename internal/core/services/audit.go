package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driving"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// Ensure AuditService implements the interface.
var _ driving.AuditRunner = (*AuditService)(nil)

// AuditService orchestrates the audit pipeline: one producer goroutine
// paginating the repository list, one consumer goroutine classifying
// repositories, connected by a bounded batch queue. The collecting loop
// blocks on the result stream until the consumer signals end of stream,
// then joins both workers before aggregating, so the aggregator never
// observes a partial result set.
type AuditService struct {
	executor  driven.GraphQLExecutor
	org       string
	batchSize int
	policy    RetryPolicy
	status    *runStatus
}

// NewAuditService creates an audit runner for the given organisation.
// The executor is the raw transport; retry wrapping happens inside Run.
func NewAuditService(
	executor driven.GraphQLExecutor, org string, batchSize int, policy RetryPolicy,
) *AuditService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &AuditService{
		executor:  executor,
		org:       org,
		batchSize: batchSize,
		policy:    policy,
		status:    newRunStatus(),
	}
}

// Run executes the audit to completion and returns the artifact.
func (s *AuditService) Run(ctx context.Context) (*domain.Artifact, error) {
	if s.org == "" {
		return nil, fmt.Errorf("%w: organisation is required", domain.ErrInvalidConfig)
	}

	runID := uuid.NewString()
	s.status.start(runID)
	defer s.status.finish()

	logger.WithField("run_id", runID).Infof("Starting | Org: %s | Batch: %d", s.org, s.batchSize)

	retry := NewRetryExecutor(s.executor, s.policy)

	batches := make(chan []domain.RepoNode, BatchQueueDepth)
	results := make(chan []domain.RepositoryRecord)

	producer := NewRepositoryProducer(retry, s.org, s.batchSize, s.status)
	consumer := NewRepositoryConsumer(ctx, retry, s.org, s.status)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		producer.Fetch(ctx, batches)
	}()
	go func() {
		defer wg.Done()
		consumer.Process(ctx, batches, results)
	}()

	// Collect until the consumer closes the result stream.
	var all []domain.RepositoryRecord
	resultBatches := 0
	for batch := range results {
		resultBatches++
		logger.Info("Batch #%d | Repos: %d", resultBatches, len(batch))
		all = append(all, batch...)
	}

	// Join both workers; after this the consumer's statistics have a single
	// completed writer and are safe to read.
	wg.Wait()
	logger.Info("Completed | Repos: %d", len(all))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifact := NewAggregator().Aggregate(all, consumer.LanguageStats(), consumer.ArchivedLanguageStats())
	return artifact, nil
}

// Status returns a snapshot of the current run.
func (s *AuditService) Status() driving.AuditStatus {
	return s.status.snapshot()
}
