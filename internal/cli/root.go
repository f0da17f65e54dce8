// Package cli provides the command-line interface for gitlabci-lint.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/gitlabci-lint/internal/cli/commands"
	"github.com/leapstack-labs/gitlabci-lint/internal/cli/config"
	"github.com/leapstack-labs/gitlabci-lint/internal/cli/output"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command. The root command is the
// lint command itself.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "gitlabci-lint [url]",
		Short: "Validate .gitlab-ci.yml with the GitLab CI lint API",
		Long: `gitlabci-lint sends the project's CI configuration to the GitLab CI lint
API and reports errors and warnings.

The URL is the project API URL, for example
https://gitlab.example.com/api/v4/projects/42. A trailing /ci/lint is
accepted. The CI file path is taken from the project's ci_config_path
setting and defaults to .gitlab-ci.yml.

Exit codes:
  0   valid
  1   invalid (GitLab before 15.7)
  2   invalid
  3   unrecognized lint response
  11  CI file cannot be opened
  12  GitLab request failed
  64  invalid arguments or configuration`,
		Example: `  # Lint against gitlab.com using GITLAB_TOKEN
  gitlabci-lint https://gitlab.com/api/v4/projects/42

  # Explicit token, markdown output for CI job logs
  gitlabci-lint https://gitlab.example.com/api/v4/projects/42 --token "$TOKEN" -o markdown`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return commands.UsageError(err)
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.ConfigFile != "" {
				logger.Debug("using config file", "path", cfg.ConfigFile)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE:          commands.RunLint,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .gitlabci-lint.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().String("token", "", "GitLab personal access token (default: $GITLAB_TOKEN)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (text|markdown|json|auto)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().String("ci-config-path", "", "CI file to lint, skipping the project lookup")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, 0, len(output.Modes))
		for _, m := range output.Modes {
			modes = append(modes, string(m))
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}))
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return ExecuteArgs(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the root command with args and the given output streams
// and returns the process exit code.
func ExecuteArgs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *commands.ExitError
	if !errors.As(err, &exitErr) || !exitErr.Silent() {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return commands.ExitCode(err)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gitlabci-lint.

To load completions:

Bash:
  $ source <(gitlabci-lint completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gitlabci-lint completion bash > /etc/bash_completion.d/gitlabci-lint
  # macOS:
  $ gitlabci-lint completion bash > $(brew --prefix)/etc/bash_completion.d/gitlabci-lint

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gitlabci-lint completion zsh > "${fpath[1]}/_gitlabci-lint"

Fish:
  $ gitlabci-lint completion fish | source

  # To load completions for each session, execute once:
  $ gitlabci-lint completion fish > ~/.config/fish/completions/gitlabci-lint.fish

PowerShell:
  PS> gitlabci-lint completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
