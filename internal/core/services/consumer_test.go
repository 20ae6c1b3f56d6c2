package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
)

// consumerExecutor serves the team directory plus a CODEOWNERS file per
// repository; repositories absent from the map have no CODEOWNERS at all.
func consumerExecutor(codeowners map[string]string) *fakeExecutor {
	return &fakeExecutor{handler: func(_ int, query string, variables map[string]any) (*driven.GraphQLResponse, error) {
		if strings.Contains(query, "teams(first: 100)") {
			return respOK(teamsBody(`{"name":"Team A","slug":"team-a"}`)), nil
		}
		repo, _ := variables["repo"].(string)
		return respOK(fileBody(codeowners[repo])), nil
	}}
}

func repoNode(name string, visibility domain.Visibility, archived bool, committed string) domain.RepoNode {
	node := domain.RepoNode{
		Name:       name,
		URL:        "https://github.example/acme/" + name,
		Visibility: visibility,
		IsArchived: archived,
	}
	if committed != "" {
		node.DefaultBranchRef = &domain.BranchRef{
			Name:   "main",
			Target: &domain.CommitTarget{CommittedDate: committed},
		}
	}
	return node
}

// runConsumer feeds the given batches through a fresh consumer and drains the
// result stream to completion.
func runConsumer(
	t *testing.T, exec *fakeExecutor, inputs ...[]domain.RepoNode,
) ([][]domain.RepositoryRecord, *RepositoryConsumer, *runStatus) {
	t.Helper()

	status := newRunStatus()
	consumer := NewRepositoryConsumer(context.Background(), exec, "acme", status)

	batches := make(chan []domain.RepoNode, len(inputs))
	for _, batch := range inputs {
		batches <- batch
	}
	close(batches)

	results := make(chan []domain.RepositoryRecord)
	go consumer.Process(context.Background(), batches, results)

	var collected [][]domain.RepositoryRecord
	for batch := range results {
		collected = append(collected, batch)
	}
	return collected, consumer, status
}

func TestConsumerBuildsRecords(t *testing.T) {
	exec := consumerExecutor(map[string]string{
		"svc-a": "* @acme/team-a",
	})

	owned := repoNode("svc-a", domain.VisibilityPublic, false, "2024-05-01T12:00:00Z")
	owned.Languages = domain.LanguageConnection{
		Edges: []domain.LanguageEdge{
			{Size: 800, Node: domain.LanguageNode{Name: "Go"}},
			{Size: 200, Node: domain.LanguageNode{Name: "HCL"}},
		},
		TotalSize: 1000,
	}
	unowned := repoNode("svc-b", domain.VisibilityPrivate, false, "")

	collected, _, status := runConsumer(t, exec, []domain.RepoNode{owned, unowned})

	require.Len(t, collected, 1)
	require.Len(t, collected[0], 2)

	first := collected[0][0]
	assert.Equal(t, "svc-a", first.Name)
	assert.Equal(t, domain.VisibilityPublic, first.Visibility)
	assert.Equal(t, []string{"Team A"}, first.OwningTeams)
	require.NotNil(t, first.LastCommit)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), first.LastCommit.UTC())
	require.Len(t, first.Technologies.Languages, 2)
	assert.Equal(t, "Go", first.Technologies.Languages[0].Name)
	assert.InDelta(t, 80.0, first.Technologies.Languages[0].Percentage, 1e-9)
	assert.Equal(t, []string{"Terraform"}, first.Technologies.IaC)

	second := collected[0][1]
	assert.Equal(t, "svc-b", second.Name)
	assert.Equal(t, []string{}, second.OwningTeams)
	assert.Nil(t, second.LastCommit)
	assert.Equal(t, []domain.LanguageBreakdown{}, second.Technologies.Languages)

	snap := status.snapshot()
	assert.Equal(t, 2, snap.ReposProcessed)
	assert.Equal(t, 1, snap.CodeownersFound)
	assert.Equal(t, 0, snap.ErrorCount)
}

func TestConsumerDropsFailingRepository(t *testing.T) {
	exec := consumerExecutor(nil)

	broken := repoNode("svc-broken", domain.VisibilityPrivate, false, "not-a-timestamp")
	healthy := repoNode("svc-ok", domain.VisibilityPrivate, false, "2024-05-01T12:00:00Z")

	collected, _, status := runConsumer(t, exec, []domain.RepoNode{broken, healthy})

	require.Len(t, collected, 1)
	require.Len(t, collected[0], 1)
	assert.Equal(t, "svc-ok", collected[0][0].Name)

	snap := status.snapshot()
	assert.Equal(t, 1, snap.ReposProcessed)
	assert.Equal(t, 1, snap.ErrorCount)
}

func TestConsumerRejectsZeroTotalSizeWithLanguages(t *testing.T) {
	exec := consumerExecutor(nil)

	node := repoNode("svc-a", domain.VisibilityPrivate, false, "")
	node.Languages = domain.LanguageConnection{
		Edges:     []domain.LanguageEdge{{Size: 100, Node: domain.LanguageNode{Name: "Go"}}},
		TotalSize: 0,
	}

	collected, _, status := runConsumer(t, exec, []domain.RepoNode{node})

	require.Len(t, collected, 1)
	assert.Empty(t, collected[0])
	assert.Equal(t, 1, status.snapshot().ErrorCount)
}

func TestConsumerPartitionsLanguageStats(t *testing.T) {
	exec := consumerExecutor(nil)

	active := repoNode("svc-a", domain.VisibilityPublic, false, "")
	active.Languages = domain.LanguageConnection{
		Edges:     []domain.LanguageEdge{{Size: 800, Node: domain.LanguageNode{Name: "Go"}}},
		TotalSize: 1000,
	}
	archived := repoNode("svc-b", domain.VisibilityPrivate, true, "")
	archived.Languages = domain.LanguageConnection{
		Edges:     []domain.LanguageEdge{{Size: 500, Node: domain.LanguageNode{Name: "Python"}}},
		TotalSize: 500,
	}

	_, consumer, _ := runConsumer(t, exec, []domain.RepoNode{active}, []domain.RepoNode{archived})

	unarchived := consumer.LanguageStats()
	require.Contains(t, unarchived, "Go")
	assert.Equal(t, 1, unarchived["Go"].RepoCount)
	assert.InDelta(t, 80.0, unarchived["Go"].CumulativePercentage, 1e-9)
	assert.Equal(t, 800, unarchived["Go"].TotalSize)
	assert.NotContains(t, unarchived, "Python")

	archivedStats := consumer.ArchivedLanguageStats()
	require.Contains(t, archivedStats, "Python")
	assert.InDelta(t, 100.0, archivedStats["Python"].CumulativePercentage, 1e-9)
}

func TestConsumerEmitsOneResultPerBatch(t *testing.T) {
	exec := consumerExecutor(nil)

	collected, _, _ := runConsumer(t, exec,
		[]domain.RepoNode{repoNode("a", domain.VisibilityPrivate, false, "")},
		[]domain.RepoNode{repoNode("b", domain.VisibilityPrivate, false, ""), repoNode("c", domain.VisibilityPrivate, false, "")},
	)

	require.Len(t, collected, 2)
	assert.Len(t, collected[0], 1)
	assert.Len(t, collected[1], 2)
}
