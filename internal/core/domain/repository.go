package domain

import "time"

// Visibility is the repository visibility as reported by the API.
type Visibility string

const (
	VisibilityPublic   Visibility = "PUBLIC"
	VisibilityPrivate  Visibility = "PRIVATE"
	VisibilityInternal Visibility = "INTERNAL"
)

// LanguageBreakdown is one language's share of a repository.
type LanguageBreakdown struct {
	Name       string  `json:"name"`
	Size       int     `json:"size"`
	Percentage float64 `json:"percentage"`
}

// Technologies groups the signals detected for a repository.
type Technologies struct {
	Languages  []LanguageBreakdown `json:"languages"`
	IaC        []string            `json:"iac"`
	Docs       []string            `json:"docs"`
	Cloud      []string            `json:"cloud"`
	Frameworks []string            `json:"frameworks"`
	CICD       []string            `json:"ci_cd"`
}

// RepositoryRecord is the per-repository result emitted by the audit.
// LastCommit is nil when the default branch has no resolvable commit.
type RepositoryRecord struct {
	Name         string       `json:"name"`
	URL          string       `json:"url"`
	Visibility   Visibility   `json:"visibility"`
	Archived     bool         `json:"archived"`
	LastCommit   *time.Time   `json:"last_commit"`
	OwningTeams  []string     `json:"owning_teams"`
	Technologies Technologies `json:"technologies"`
}

// Team is an organisation team as returned by the teams query.
// The directory of teams is fetched once per run and read-only thereafter.
type Team struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
