// Package domain contains the core types of the organisation audit:
// repository records, teams, language statistics and the final artifact.
// Types here have no dependencies on adapters or external services.
package domain
