package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/adapters/driven/auth"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/adapters/driven/githubql"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/adapters/driven/secrets"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/adapters/driven/sink"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/config"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driving"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/services"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the organisation audit",
	Long: `Runs the full audit: pages through the organisation's repositories,
classifies each one, and publishes the aggregated JSON artifact to the
configured destination.`,
	RunE: runScan,
}

// Flag values override the environment and the config file.
var (
	scanOrg       string
	scanBatchSize int
	scanOutput    string
)

func init() {
	scanCmd.Flags().StringVar(&scanOrg, "org", "", "GitHub organisation to audit")
	scanCmd.Flags().IntVar(&scanBatchSize, "batch-size", 0, "repositories per page")
	scanCmd.Flags().StringVar(&scanOutput, "output", "", "output file path (development mode)")
	rootCmd.AddCommand(scanCmd)
}

// buildPipeline assembles the audit runner and artifact sink from the
// configuration. Swapped in tests.
var buildPipeline = defaultPipeline

func defaultPipeline(
	ctx context.Context, cfg *config.Config,
) (driving.AuditRunner, driven.ArtifactSink, error) {
	var tokenProvider driven.TokenProvider
	if cfg.GitHubToken != "" {
		tokenProvider = auth.NewStaticTokenProvider(cfg.GitHubToken)
	} else {
		resolver, err := secrets.NewManagerResolver(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		tokenProvider = auth.NewSecretTokenProvider(cfg.AWSSecretName, resolver)
	}

	client := githubql.NewClient(tokenProvider)
	runner := services.NewAuditService(
		client, cfg.GitHubOrg, cfg.BatchSize, services.DefaultRetryPolicy(cfg.MaxRetries),
	)

	var artifactSink driven.ArtifactSink
	if cfg.IsProduction() {
		s3Sink, err := sink.NewS3Sink(ctx, cfg.SourceBucket, cfg.SourceKey)
		if err != nil {
			return nil, nil, err
		}
		artifactSink = s3Sink
	} else {
		artifactSink = sink.NewFileSink(cfg.OutputFile)
	}

	return runner, artifactSink, nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if scanOrg != "" {
		cfg.GitHubOrg = scanOrg
	}
	if scanBatchSize > 0 {
		cfg.BatchSize = scanBatchSize
	}
	if scanOutput != "" {
		cfg.OutputFile = scanOutput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.SetLevel(cfg.LogLevel)

	runner, artifactSink, err := buildPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	cmd.Printf("Auditing organisation %s...\n", cfg.GitHubOrg)

	artifact, err := runWithProgress(ctx, cmd, runner)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if err := artifactSink.Write(ctx, artifact); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	status := runner.Status()
	cmd.Printf("Audited %d repositories (%d errors)\n", status.ReposProcessed, status.ErrorCount)
	return nil
}

// runWithProgress runs the audit while displaying progress updates.
func runWithProgress(
	ctx context.Context, cmd *cobra.Command, runner driving.AuditRunner,
) (*domain.Artifact, error) {
	type result struct {
		artifact *domain.Artifact
		err      error
	}

	resCh := make(chan result, 1)
	go func() {
		artifact, err := runner.Run(ctx)
		resCh <- result{artifact, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resCh:
			return res.artifact, res.err
		case <-ticker.C:
			status := runner.Status()
			if status.ReposProcessed > lastCount {
				cmd.Printf("\rProcessing... %d of %d repositories",
					status.ReposProcessed, status.ReposFetched)
				lastCount = status.ReposProcessed
			}
		}
	}
}
