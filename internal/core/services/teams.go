package services

import (
	"context"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// teamsPage is the decoded envelope of the teams query.
type teamsPage struct {
	Data struct {
		Organization struct {
			Teams struct {
				Nodes []domain.Team `json:"nodes"`
			} `json:"teams"`
		} `json:"organization"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// TeamDirectory holds the organisation's teams, fetched once per run and
// immutable thereafter.
type TeamDirectory struct {
	teams []domain.Team
}

// FetchTeamDirectory fetches the first page of the organisation's teams
// (up to 100). Larger organisations are truncated; this mirrors the single
// teams page the audit has always consulted. A failed fetch is logged and
// yields an empty directory, not an error.
func FetchTeamDirectory(ctx context.Context, executor driven.GraphQLExecutor, org string) *TeamDirectory {
	variables := map[string]any{"org": org}

	resp, err := executor.Execute(ctx, teamsQuery, variables)
	if err != nil {
		logger.Error("Error fetching teams from organization %s: %v", org, err)
		return &TeamDirectory{}
	}

	var page teamsPage
	if err := resp.Decode(&page); err != nil {
		logger.Error("Error decoding teams for organization %s: %v", org, err)
		return &TeamDirectory{}
	}
	if len(page.Errors) > 0 {
		logger.Error("GraphQL query returned errors when fetching organization teams: %v", page.Errors)
		return &TeamDirectory{}
	}

	teams := page.Data.Organization.Teams.Nodes
	logger.Info("Retrieved %d teams from organization %s", len(teams), org)
	return &TeamDirectory{teams: teams}
}

// Teams returns the directory's teams in API order.
func (d *TeamDirectory) Teams() []domain.Team {
	return d.teams
}

// Len returns the number of teams in the directory.
func (d *TeamDirectory) Len() int {
	return len(d.teams)
}
