package domain

import "math"

// LanguageStat is the running aggregate for one language within one
// partition (archived or unarchived). A repository contributes to exactly
// one partition per language it contains.
type LanguageStat struct {
	RepoCount            int
	CumulativePercentage float64
	TotalSize            int
}

// Accumulate folds one repository's language share into the stat.
// Pure: returns the updated value, the receiver is unchanged.
func (s LanguageStat) Accumulate(percentage float64, size int) LanguageStat {
	return LanguageStat{
		RepoCount:            s.RepoCount + 1,
		CumulativePercentage: s.CumulativePercentage + percentage,
		TotalSize:            s.TotalSize + size,
	}
}

// LanguageSummary is the published form of a LanguageStat.
type LanguageSummary struct {
	RepoCount         int     `json:"repo_count"`
	AveragePercentage float64 `json:"average_percentage"`
	TotalSize         int     `json:"total_size"`
}

// Summary averages the cumulative percentage over the repositories seen,
// rounded to 3 decimal places.
func (s LanguageStat) Summary() LanguageSummary {
	avg := 0.0
	if s.RepoCount > 0 {
		avg = round3(s.CumulativePercentage / float64(s.RepoCount))
	}
	return LanguageSummary{
		RepoCount:         s.RepoCount,
		AveragePercentage: avg,
		TotalSize:         s.TotalSize,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// VisibilityStats counts repositories by visibility and recent activity
// within one archived/unarchived partition. The activity windows are not
// mutually exclusive: a recently pushed repository counts in all three.
type VisibilityStats struct {
	Total             int `json:"total"`
	Private           int `json:"private"`
	Public            int `json:"public"`
	Internal          int `json:"internal"`
	ActiveLastMonth   int `json:"active_last_month"`
	ActiveLast3Months int `json:"active_last_3months"`
	ActiveLast6Months int `json:"active_last_6months"`
}

// Metadata describes the audit run itself.
type Metadata struct {
	LastUpdated string `json:"last_updated"`
}

// Artifact is the complete output of one audit run.
type Artifact struct {
	Repositories                 []RepositoryRecord         `json:"repositories"`
	StatsUnarchived              VisibilityStats            `json:"stats_unarchived"`
	StatsArchived                VisibilityStats            `json:"stats_archived"`
	LanguageStatisticsUnarchived map[string]LanguageSummary `json:"language_statistics_unarchived"`
	LanguageStatisticsArchived   map[string]LanguageSummary `json:"language_statistics_archived"`
	Metadata                     Metadata                   `json:"metadata"`
}
