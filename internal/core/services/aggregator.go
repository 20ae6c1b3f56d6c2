package services

import (
	"time"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
)

// Activity window widths, in days.
const (
	activeMonthDays  = 30
	active3MonthDays = 90
	active6MonthDays = 180
)

// Aggregator computes the final artifact from the collected records and the
// consumer's partitioned language statistics. It runs once, after the
// consumer has fully drained.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an aggregator using the wall clock.
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// Aggregate computes visibility counts, activity-window counts and language
// averages, partitioned by archived state.
func (a *Aggregator) Aggregate(
	records []domain.RepositoryRecord,
	languageStats map[string]domain.LanguageStat,
	archivedLanguageStats map[string]domain.LanguageStat,
) *domain.Artifact {
	now := a.now().UTC()

	var unarchived, archived domain.VisibilityStats
	for _, record := range records {
		stats := &unarchived
		if record.Archived {
			stats = &archived
		}

		stats.Total++
		switch record.Visibility {
		case domain.VisibilityPrivate:
			stats.Private++
		case domain.VisibilityPublic:
			stats.Public++
		case domain.VisibilityInternal:
			stats.Internal++
		}

		if record.LastCommit == nil {
			continue
		}
		// The windows are tested independently: a repository active in the
		// last month counts in all three.
		days := int(now.Sub(*record.LastCommit).Hours() / 24)
		if days <= activeMonthDays {
			stats.ActiveLastMonth++
		}
		if days <= active3MonthDays {
			stats.ActiveLast3Months++
		}
		if days <= active6MonthDays {
			stats.ActiveLast6Months++
		}
	}

	if records == nil {
		records = []domain.RepositoryRecord{}
	}

	return &domain.Artifact{
		Repositories:                 records,
		StatsUnarchived:              unarchived,
		StatsArchived:                archived,
		LanguageStatisticsUnarchived: summarise(languageStats),
		LanguageStatisticsArchived:   summarise(archivedLanguageStats),
		Metadata: domain.Metadata{
			LastUpdated: now.Format("2006-01-02"),
		},
	}
}

// summarise converts running language stats into their published form.
func summarise(stats map[string]domain.LanguageStat) map[string]domain.LanguageSummary {
	summaries := make(map[string]domain.LanguageSummary, len(stats))
	for name, stat := range stats {
		summaries[name] = stat.Summary()
	}
	return summaries
}
