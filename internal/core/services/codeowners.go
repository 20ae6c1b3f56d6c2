package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// codeownersPaths are the candidate CODEOWNERS locations, probed in order.
// The first path whose fetch returns content wins.
var codeownersPaths = []string{
	"CODEOWNERS",
	".github/CODEOWNERS",
	"docs/CODEOWNERS",
	".gitlab/CODEOWNERS",
}

// fileResponse is the decoded envelope of a single-file fetch.
type fileResponse struct {
	Data struct {
		Repository struct {
			File *struct {
				Text *string `json:"text"`
			} `json:"file"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// fetchCodeowners probes the candidate paths on the given branch and returns
// the first non-empty CODEOWNERS content found, or "" if none exists.
// Failures on one path never stop the probe of the remaining paths.
func fetchCodeowners(
	ctx context.Context, executor driven.GraphQLExecutor, org, repo, branch string,
) string {
	variables := map[string]any{"owner": org, "repo": repo}

	for _, path := range codeownersPaths {
		query := fmt.Sprintf(fileQueryFormat, branch, path)

		resp, err := executor.Execute(ctx, query, variables)
		if err != nil {
			logger.Error("Error fetching CODEOWNERS from %s in %s: %v", path, repo, err)
			continue
		}

		var file fileResponse
		if err := resp.Decode(&file); err != nil {
			logger.Error("Error decoding CODEOWNERS from %s in %s: %v", path, repo, err)
			continue
		}
		if len(file.Errors) > 0 {
			continue
		}

		if f := file.Data.Repository.File; f != nil && f.Text != nil && *f.Text != "" {
			logger.Debug("Found CODEOWNERS file at %s in %s", path, repo)
			return *f.Text
		}
	}

	return ""
}

// matchOwningTeams returns the display names of the teams mentioned in the
// CODEOWNERS content as an organisation-qualified handle ("@org/slug").
// Matching is a case-insensitive literal substring check; results keep
// first-match order and are deduplicated. Empty content yields nil.
func matchOwningTeams(content, org string, teams []domain.Team) []string {
	if content == "" {
		return nil
	}

	normalised := strings.ToLower(strings.ReplaceAll(content, "\n", " "))

	var matched []string
	seen := make(map[string]bool)
	for _, team := range teams {
		handle := strings.ToLower("@" + org + "/" + team.Slug)
		if strings.Contains(normalised, handle) && !seen[team.Slug] {
			seen[team.Slug] = true
			matched = append(matched, team.Name)
		}
	}
	return matched
}
