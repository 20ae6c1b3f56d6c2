// Package cli wires the audit pipeline behind a cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set by Execute from the build's version string.
var version = "dev"

// cfgFile is the optional YAML config path; the environment still overrides it.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "github-scraper",
	Short: "Audit the repositories of a GitHub organisation",
	Long: `Scans every repository of a GitHub organisation through the GraphQL API,
attributes ownership from CODEOWNERS files, detects languages and technology
signals, and publishes the aggregated results as a JSON artifact, either to a
local file or to S3.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
}

// Execute runs the command tree with the given build version.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}
