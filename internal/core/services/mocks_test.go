package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
)

// fakeExecutor scripts GraphQL responses for tests. The handler receives the
// 1-based call number alongside the query and variables.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   int
	queries []string
	handler func(call int, query string, variables map[string]any) (*driven.GraphQLResponse, error)
}

func (f *fakeExecutor) Execute(
	_ context.Context, query string, variables map[string]any,
) (*driven.GraphQLResponse, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.handler(call, query, variables)
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeExecutor) recordedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func respOK(body string) *driven.GraphQLResponse {
	return &driven.GraphQLResponse{StatusCode: 200, Body: []byte(body)}
}

func respStatus(status int) *driven.GraphQLResponse {
	return &driven.GraphQLResponse{StatusCode: status, Body: []byte(`{}`)}
}

// pageBody builds a repositories page response.
func pageBody(nodesJSON string, hasNext bool, cursor string) string {
	return fmt.Sprintf(
		`{"data":{"organization":{"repositories":{"pageInfo":{"hasNextPage":%t,"endCursor":%q},"nodes":[%s]}}}}`,
		hasNext, cursor, nodesJSON,
	)
}

// teamsBody builds a teams response.
func teamsBody(teamsJSON string) string {
	return fmt.Sprintf(`{"data":{"organization":{"teams":{"nodes":[%s]}}}}`, teamsJSON)
}

// fileBody builds a single-file response; pass "" for a null file.
func fileBody(text string) string {
	if text == "" {
		return `{"data":{"repository":{"file":null}}}`
	}
	return fmt.Sprintf(`{"data":{"repository":{"file":{"text":%q}}}}`, text)
}

const errorsBody = `{"errors":[{"message":"something went wrong"}]}`

// nodeJSON builds a minimal repository node.
func nodeJSON(name, visibility string, archived bool, committed string, languagesJSON string, totalSize int) string {
	branch := `null`
	if committed != "" {
		branch = fmt.Sprintf(`{"name":"main","target":{"committedDate":%q}}`, committed)
	}
	return fmt.Sprintf(
		`{"name":%q,"url":"https://github.example/acme/%s","visibility":%q,"isArchived":%t,"defaultBranchRef":%s,"languages":{"edges":[%s],"totalSize":%d},"object":null}`,
		name, name, visibility, archived, branch, languagesJSON, totalSize,
	)
}

func langEdge(name string, size int) string {
	return fmt.Sprintf(`{"size":%d,"node":{"name":%q}}`, size, name)
}
