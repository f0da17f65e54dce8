package commands

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/gitlabci-lint/internal/cli/config"
	"github.com/leapstack-labs/gitlabci-lint/internal/cli/output"
	"github.com/leapstack-labs/gitlabci-lint/internal/gitlab"
	"github.com/leapstack-labs/gitlabci-lint/internal/lint"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	RunID    string
}

// NewCommandContext builds a CommandContext from the config and logger the
// root command stored in the context. A non-empty url overrides the
// configured base URL. The resulting config is validated.
func NewCommandContext(cmd *cobra.Command, url string) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context()).WithURL(url)
	if err := cfg.Validate(); err != nil {
		return nil, UsageError(err)
	}

	runID := uuid.NewString()
	logger := config.GetLogger(cmd.Context()).With("run_id", runID)

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		RunID:    runID,
	}, nil
}

// Client creates a GitLab client for the configured base URL.
func (c *CommandContext) Client() *gitlab.Client {
	return gitlab.NewClient(gitlab.Options{
		BaseURL: c.Cfg.URL,
		Token:   c.Cfg.Token,
		Timeout: c.Cfg.Timeout,
		Logger:  c.Logger,
	})
}

// Runner creates a lint runner that reports through reporter.
func (c *CommandContext) Runner(api lint.API, reporter lint.Reporter) *lint.Runner {
	return lint.NewRunner(api, reporter, lint.Options{
		Token:      c.Cfg.Token,
		ConfigPath: c.Cfg.CIConfigPath,
		RunID:      c.RunID,
		Logger:     c.Logger,
	})
}
