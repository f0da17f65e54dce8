package lint

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/gitlabci-lint/internal/gitlab"
)

// API is the subset of the GitLab client a lint run needs.
type API interface {
	CIConfigPath(ctx context.Context) string
	LintURL() string
	Lint(ctx context.Context, content string) (gitlab.LintResponse, error)
}

// Reporter receives progress from a lint run.
type Reporter interface {
	// Linting is called right before the lint request is sent.
	Linting(lintURL, token string)
	// Done is called exactly once with the final report.
	Done(report *Report)
}

// Options configures a Runner.
type Options struct {
	// Token is only used for the status line and the authentication hint;
	// the API client carries its own copy for requests.
	Token string
	// ConfigPath skips remote CI path discovery when set.
	ConfigPath string
	RunID      string
	Logger     *slog.Logger
}

// Runner executes the lint workflow.
type Runner struct {
	api      API
	reporter Reporter
	opts     Options
	logger   *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(api API, reporter Reporter, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		api:      api,
		reporter: reporter,
		opts:     opts,
		logger:   logger,
	}
}

// ResolveConfigPath returns the CI file path to lint: the configured
// override, or whatever the project descriptor names.
func (r *Runner) ResolveConfigPath(ctx context.Context) string {
	if r.opts.ConfigPath != "" {
		r.logger.Debug("using configured CI config path", "path", r.opts.ConfigPath)
		return r.opts.ConfigPath
	}
	return r.api.CIConfigPath(ctx)
}

// Run performs one lint run and returns its report. The report's ExitCode
// is the process exit code for the run.
func (r *Runner) Run(ctx context.Context) *Report {
	return r.RunPath(ctx, r.ResolveConfigPath(ctx))
}

// RunPath lints the file at path without resolving it first.
func (r *Runner) RunPath(ctx context.Context, path string) *Report {
	report := &Report{
		RunID:      r.opts.RunID,
		LintURL:    r.api.LintURL(),
		ConfigPath: path,
		Errors:     []string{},
		Warnings:   []string{},
	}
	defer r.reporter.Done(report)

	content, err := ReadConfigFile(path)
	if err != nil {
		r.logger.Debug("cannot read CI config", "path", path, "error", err)
		report.Outcome = OutcomeCannotOpen
		report.Error = err.Error()
		report.ExitCode = ExitCannotOpen
		return report
	}

	r.reporter.Linting(report.LintURL, r.opts.Token)

	resp, err := r.api.Lint(ctx, content)
	if err != nil {
		report.Outcome = OutcomeConnectionError
		report.Error = err.Error()
		if r.opts.Token == "" && gitlab.IsUnauthorized(err) {
			report.Hint = AuthHint
		}
		r.logger.Debug("lint request failed", "url", report.LintURL, "error", err)
		report.ExitCode = ExitConnection
		return report
	}

	report.applyVerdict(Interpret(resp))
	r.logger.Debug("lint finished",
		"path", path,
		"shape", report.Shape,
		"valid", report.Valid,
		"exit_code", report.ExitCode)
	return report
}
