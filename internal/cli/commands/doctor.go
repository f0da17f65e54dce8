package commands

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/gitlabci-lint/internal/cli/config"
	"github.com/leapstack-labs/gitlabci-lint/internal/cli/output"
	intconfig "github.com/leapstack-labs/gitlabci-lint/internal/config"
	"github.com/leapstack-labs/gitlabci-lint/internal/gitlab"
	"github.com/leapstack-labs/gitlabci-lint/internal/lint"
)

// Health check statuses.
const (
	checkPass  = "pass"
	checkWarn  = "warn"
	checkError = "error"
)

// Health check groups, in display order.
const (
	groupConfiguration = "configuration"
	groupConnectivity  = "connectivity"
	groupLocalFiles    = "local files"
)

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	HealthChecks []HealthCheck `json:"health_checks"`
	ErrorCount   int           `json:"error_count"`
	WarnCount    int           `json:"warn_count"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Group  string `json:"group"`
	Status string `json:"status"` // "pass", "warn", "error"
	Detail string `json:"detail,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [url]",
		Short: "Check that linting can work from here",
		Long: `Run environment checks without linting anything:
- Configuration: config file, API URL and token
- Connectivity: the project descriptor can be fetched
- Local files: the CI file that would be linted exists and is readable

Exits with status 1 when any check fails.`,
		Example: `  # Check the configured project
  gitlabci-lint doctor

  # Output as JSON
  gitlabci-lint doctor -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var url string
			if len(args) > 0 {
				url = args[0]
			}
			return runDoctor(cmd, url)
		},
	}
}

func runDoctor(cmd *cobra.Command, url string) error {
	cmdCtx, err := NewCommandContext(cmd, url)
	if err != nil {
		return err
	}

	out := buildDoctorOutput(cmd.Context(), cmdCtx.Cfg, cmdCtx.Client())

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}

	if out.ErrorCount > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

func buildDoctorOutput(ctx context.Context, cfg *config.Config, client *gitlab.Client) *DoctorOutput {
	var checks []HealthCheck
	add := func(id, name, group, status, detail string) {
		checks = append(checks, HealthCheck{ID: id, Name: name, Group: group, Status: status, Detail: detail})
	}

	if cfg.ConfigFile != "" {
		add("config-file", "Config file", groupConfiguration, checkPass, cfg.ConfigFile)
	} else {
		add("config-file", "Config file", groupConfiguration, checkPass, "none found, using defaults and environment")
	}
	add("api-url", "API URL", groupConfiguration, checkPass, client.BaseURL())
	if client.HasToken() {
		add("token", "Token", groupConfiguration, checkPass, lint.MaskToken(cfg.Token))
	} else {
		add("token", "Token", groupConfiguration, checkWarn, "not set; private projects and the lint endpoint may reject requests")
	}

	project, err := client.GetProject(ctx)
	switch {
	case err == nil:
		add("project", "Project descriptor", groupConnectivity, checkPass, "reachable")
	case gitlab.IsUnauthorized(err) && !client.HasToken():
		add("project", "Project descriptor", groupConnectivity, checkError, err.Error()+"; set "+intconfig.TokenEnvVar)
	default:
		add("project", "Project descriptor", groupConnectivity, checkError, err.Error())
	}

	path := cfg.CIConfigPath
	source := "configured"
	if path == "" {
		path = gitlab.DefaultCIConfigPath
		source = "default"
		if project != nil && project.CIConfigPath != "" {
			path = project.CIConfigPath
			source = "project"
		}
	}
	add("ci-config-path", "CI config path", groupLocalFiles, checkPass, fmt.Sprintf("%s (%s)", path, source))

	if content, err := lint.ReadConfigFile(path); err != nil {
		add("ci-config-file", "CI config file", groupLocalFiles, checkError, "Cannot open "+path)
	} else if content == "" {
		add("ci-config-file", "CI config file", groupLocalFiles, checkWarn, "empty")
	} else {
		add("ci-config-file", "CI config file", groupLocalFiles, checkPass, fmt.Sprintf("%d bytes", len(content)))
	}

	out := &DoctorOutput{HealthChecks: checks}
	for _, c := range checks {
		switch c.Status {
		case checkError:
			out.ErrorCount++
		case checkWarn:
			out.WarnCount++
		}
	}
	return out
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println(styles.Header.Render("gitlabci-lint doctor"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = check.Group
			r.Println(styles.Bold.Render(titleCaser.String(currentGroup)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case checkWarn:
			icon = styles.Warning.Render("!")
		case checkError:
			icon = styles.Error.Render("✗")
		}

		line := fmt.Sprintf("  %s %s", icon, check.Name)
		if check.Detail != "" {
			line += ": " + styles.Muted.Render(check.Detail)
		}
		r.Println(line)
	}
	r.Println("")

	switch {
	case out.ErrorCount > 0:
		r.Error(fmt.Sprintf("%d check(s) failed", out.ErrorCount))
	case out.WarnCount > 0:
		r.Warning(fmt.Sprintf("All checks passed with %d warning(s)", out.WarnCount))
	default:
		r.Success("All checks passed")
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# gitlabci-lint doctor")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = check.Group
			r.Println("## " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case checkWarn:
			status = "WARN"
		case checkError:
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s", status, check.Name)
		if check.Detail != "" {
			r.Printf(": %s", check.Detail)
		}
		r.Println("")
	}
	r.Println("")
	r.Printf("**%d error(s), %d warning(s)**\n", out.ErrorCount, out.WarnCount)
}
