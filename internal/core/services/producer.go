package services

import (
	"context"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// BatchQueueDepth bounds the producer-to-consumer queue. A full queue
// suspends the producer until the consumer drains capacity, keeping memory
// use flat regardless of organisation size.
const BatchQueueDepth = 10

// DefaultBatchSize is the default repositories-per-page count.
const DefaultBatchSize = 30

// repositoriesPage is the decoded envelope of one repositories query.
type repositoriesPage struct {
	Data struct {
		Organization struct {
			Repositories struct {
				PageInfo domain.PageInfo   `json:"pageInfo"`
				Nodes    []domain.RepoNode `json:"nodes"`
			} `json:"repositories"`
		} `json:"organization"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// RepositoryProducer paginates the organisation's repository list and pushes
// page batches onto a bounded queue.
type RepositoryProducer struct {
	executor  driven.GraphQLExecutor
	org       string
	batchSize int
	status    *runStatus
}

// NewRepositoryProducer creates a producer for the given organisation.
// The executor is expected to carry its own retry behaviour.
func NewRepositoryProducer(
	executor driven.GraphQLExecutor, org string, batchSize int, status *runStatus,
) *RepositoryProducer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RepositoryProducer{
		executor:  executor,
		org:       org,
		batchSize: batchSize,
		status:    status,
	}
}

// Fetch pages through the organisation's repositories, sending each page's
// nodes as one batch. The send blocks while the queue is full. The channel
// is closed exactly once on return, on success and on abort alike, so the
// consumer always observes a deterministic end of stream. Exhausted retries
// and logical errors in a response end pagination without failing the run.
func (p *RepositoryProducer) Fetch(ctx context.Context, batches chan<- []domain.RepoNode) {
	defer close(batches)

	logger.Info("Starting to fetch repositories for organisation: %s", p.org)

	var cursor any // null on the first page
	hasNextPage := true

	for hasNextPage {
		variables := map[string]any{
			"org":    p.org,
			"limit":  p.batchSize,
			"cursor": cursor,
		}

		logger.Info("Fetching | Batch: %d", p.batchSize)
		resp, err := p.executor.Execute(ctx, repositoriesQuery, variables)
		if err != nil {
			logger.Error("Error fetching repositories: %v", err)
			return
		}

		var page repositoriesPage
		if err := resp.Decode(&page); err != nil {
			logger.Error("Error decoding repositories page: %v", err)
			return
		}
		if len(page.Errors) > 0 {
			logger.Error("GraphQL query returned errors: %v", page.Errors)
			return
		}

		nodes := page.Data.Organization.Repositories.Nodes
		p.status.addFetched(len(nodes))
		logger.Info("Fetched: %d | Total: %d", len(nodes), p.status.snapshot().ReposFetched)

		select {
		case batches <- nodes:
		case <-ctx.Done():
			return
		}

		pageInfo := page.Data.Organization.Repositories.PageInfo
		hasNextPage = pageInfo.HasNextPage
		cursor = pageInfo.EndCursor
	}

	logger.Info("Completed fetching repositories. Total repositories fetched: %d",
		p.status.snapshot().ReposFetched)
}
