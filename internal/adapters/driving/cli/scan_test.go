package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/config"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driving"
)

// mockRunner implements driving.AuditRunner for testing.
type mockRunner struct {
	artifact *domain.Artifact
	err      error
	status   driving.AuditStatus
}

func (m *mockRunner) Run(_ context.Context) (*domain.Artifact, error) {
	return m.artifact, m.err
}

func (m *mockRunner) Status() driving.AuditStatus {
	return m.status
}

// mockSink implements driven.ArtifactSink for testing.
type mockSink struct {
	got *domain.Artifact
	err error
}

func (m *mockSink) Write(_ context.Context, artifact *domain.Artifact) error {
	m.got = artifact
	return m.err
}

func setupScanTest(runner driving.AuditRunner, artifactSink driven.ArtifactSink) func() {
	oldBuild := buildPipeline
	buildPipeline = func(_ context.Context, _ *config.Config) (driving.AuditRunner, driven.ArtifactSink, error) {
		return runner, artifactSink, nil
	}
	return func() {
		buildPipeline = oldBuild
	}
}

func TestScanCmd_Use(t *testing.T) {
	assert.Equal(t, "scan", scanCmd.Use)
}

func TestScanCmd_HasFlags(t *testing.T) {
	assert.NotNil(t, scanCmd.Flags().Lookup("org"))
	assert.NotNil(t, scanCmd.Flags().Lookup("batch-size"))
	assert.NotNil(t, scanCmd.Flags().Lookup("output"))
}

func TestScanCmd_OrgFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("GITHUB_ORG", "env-org")
	t.Setenv("GITHUB_TOKEN", "ghp_token")

	var gotOrg string
	oldBuild := buildPipeline
	buildPipeline = func(_ context.Context, cfg *config.Config) (driving.AuditRunner, driven.ArtifactSink, error) {
		gotOrg = cfg.GitHubOrg
		return &mockRunner{artifact: &domain.Artifact{}}, &mockSink{}, nil
	}
	defer func() {
		buildPipeline = oldBuild
		scanOrg = ""
	}()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"scan", "--org", "flag-org"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "flag-org", gotOrg)
}

func TestScanCmd_Short(t *testing.T) {
	assert.Equal(t, "Run the organisation audit", scanCmd.Short)
}

func TestScanCmd_RunsAuditAndWritesArtifact(t *testing.T) {
	t.Setenv("GITHUB_ORG", "acme")
	t.Setenv("GITHUB_TOKEN", "ghp_token")

	artifact := &domain.Artifact{Metadata: domain.Metadata{LastUpdated: "2024-05-01"}}
	runner := &mockRunner{
		artifact: artifact,
		status:   driving.AuditStatus{ReposProcessed: 3, ErrorCount: 1},
	}
	writer := &mockSink{}
	cleanup := setupScanTest(runner, writer)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"scan"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Same(t, artifact, writer.got)
	assert.Contains(t, buf.String(), "Auditing organisation acme")
	assert.Contains(t, buf.String(), "Audited 3 repositories (1 errors)")
}

func TestScanCmd_FailsOnInvalidConfig(t *testing.T) {
	t.Setenv("GITHUB_ORG", "")
	t.Setenv("GITHUB_TOKEN", "")

	cleanup := setupScanTest(&mockRunner{}, &mockSink{})
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"scan"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestScanCmd_PropagatesAuditFailure(t *testing.T) {
	t.Setenv("GITHUB_ORG", "acme")
	t.Setenv("GITHUB_TOKEN", "ghp_token")

	runner := &mockRunner{err: errors.New("boom")}
	writer := &mockSink{}
	cleanup := setupScanTest(runner, writer)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"scan"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit failed")
	assert.Nil(t, writer.got)
}

func TestScanCmd_PropagatesSinkFailure(t *testing.T) {
	t.Setenv("GITHUB_ORG", "acme")
	t.Setenv("GITHUB_TOKEN", "ghp_token")

	runner := &mockRunner{artifact: &domain.Artifact{}}
	writer := &mockSink{err: errors.New("denied")}
	cleanup := setupScanTest(runner, writer)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"scan"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "write artifact")
}
