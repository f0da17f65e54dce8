package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/gitlabci-lint/internal/cli/config"
	"github.com/leapstack-labs/gitlabci-lint/internal/cli/output"
	intconfig "github.com/leapstack-labs/gitlabci-lint/internal/config"
	"github.com/leapstack-labs/gitlabci-lint/internal/gitlab"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir   string
	Force bool
	URL   string
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .gitlabci-lint.yaml config file",
		Long: `Create a starter .gitlabci-lint.yaml in the given directory.

The file records the project API URL, timeout and output format so that
gitlabci-lint can run without arguments from anywhere in the repository.
The token is never written; keep it in GITLAB_TOKEN or reference it from
the file as token: ${GITLAB_TOKEN}.

With --force an existing file is rewritten, keeping its values unless
they are overridden by flags.`,
		Example: `  # Initialize in current directory
  gitlabci-lint init --url https://gitlab.example.com/api/v4/projects/42

  # Rewrite an existing config file
  gitlabci-lint init --force --ci-config-path ci/main.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = "."
			if len(args) > 0 {
				opts.Dir = args[0]
			}
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&opts.URL, "url", "", "Project API URL to record")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	cfg := config.FromContext(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	if opts.Dir != "." {
		if err := os.MkdirAll(opts.Dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", opts.Dir, err)
		}
	}

	pf := intconfig.DefaultProjectFile()
	path := filepath.Join(opts.Dir, intconfig.ConfigFileName)
	if existing := intconfig.FindConfigFile(opts.Dir); existing != "" {
		if !opts.Force {
			return UsageError(fmt.Errorf("%s already exists. Use --force to overwrite", existing))
		}
		loaded, err := intconfig.LoadFromDir(opts.Dir)
		if err != nil {
			return UsageError(err)
		}
		mergeProjectFile(pf, loaded)
		path = existing
	}

	if opts.URL != "" {
		pf.URL = gitlab.NormalizeBaseURL(opts.URL)
	}
	if f := cmd.Flags().Lookup("ci-config-path"); f != nil && f.Changed {
		pf.CIConfigPath = cfg.CIConfigPath
	}
	pf.Token = ""

	if err := intconfig.WriteProjectFile(path, pf); err != nil {
		return err
	}

	r.StatusLine(path, "created", "")
	r.Println("")
	r.Success("gitlabci-lint initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Printf("  1. Export %s with a token that can read the project\n", intconfig.TokenEnvVar)
	r.Println("  2. Run 'gitlabci-lint' to lint the CI configuration")
	return nil
}

// mergeProjectFile copies the non-empty values of src into dst.
func mergeProjectFile(dst, src *intconfig.ProjectFile) {
	if src == nil {
		return
	}
	if src.URL != "" {
		dst.URL = src.URL
	}
	if src.Timeout != "" {
		dst.Timeout = src.Timeout
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.CIConfigPath != "" {
		dst.CIConfigPath = src.CIConfigPath
	}
	dst.Verbose = src.Verbose
}
