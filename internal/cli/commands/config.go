package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/gitlabci-lint/internal/cli/config"
	"github.com/leapstack-labs/gitlabci-lint/internal/cli/output"
	"github.com/leapstack-labs/gitlabci-lint/internal/gitlab"
	"github.com/leapstack-labs/gitlabci-lint/internal/lint"
)

// ResolvedConfig is the JSON output of config show.
type ResolvedConfig struct {
	URL          string `json:"url"`
	LintURL      string `json:"lint_url"`
	Token        string `json:"token"`
	Timeout      string `json:"timeout"`
	Output       string `json:"output"`
	Verbose      bool   `json:"verbose"`
	CIConfigPath string `json:"ci_config_path"`
	ConfigFile   string `json:"config_file"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [url]",
		Short: "Show the resolved configuration",
		Long: `Print the configuration a lint run would use after merging defaults,
the config file, environment variables, flags and the URL argument.

The token is masked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var url string
			if len(args) > 0 {
				url = args[0]
			}
			cmdCtx, err := NewCommandContext(cmd, url)
			if err != nil {
				return err
			}
			return renderConfig(cmdCtx.Renderer, resolveConfig(cmdCtx.Cfg))
		},
	}
}

func resolveConfig(cfg *config.Config) *ResolvedConfig {
	return &ResolvedConfig{
		URL:          gitlab.NormalizeBaseURL(cfg.URL),
		LintURL:      gitlab.LintURL(cfg.URL),
		Token:        lint.MaskToken(cfg.Token),
		Timeout:      cfg.Timeout.String(),
		Output:       cfg.OutputFormat,
		Verbose:      cfg.Verbose,
		CIConfigPath: cfg.CIConfigPath,
		ConfigFile:   cfg.ConfigFile,
	}
}

func renderConfig(r *output.Renderer, rc *ResolvedConfig) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(rc)
	}

	orNone := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	}
	verbose := "false"
	if rc.Verbose {
		verbose = "true"
	}

	r.Header(2, "Configuration")
	r.Table([]string{"Key", "Value"}, [][]string{
		{"url", rc.URL},
		{"lint_url", rc.LintURL},
		{"token", orNone(rc.Token)},
		{"timeout", rc.Timeout},
		{"output", rc.Output},
		{"verbose", verbose},
		{"ci_config_path", orNone(rc.CIConfigPath)},
		{"config_file", orNone(rc.ConfigFile)},
	})
	return nil
}
