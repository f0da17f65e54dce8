package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/gitlabci-lint/internal/cli/output"
	"github.com/leapstack-labs/gitlabci-lint/internal/lint"
)

// messageSeparator frames the errors or warnings of a lint response.
const messageSeparator = "======="

// RunLint runs the lint workflow once. args may hold the base URL.
// The returned error is an *ExitError when the run exits non-zero.
func RunLint(cmd *cobra.Command, args []string) error {
	var url string
	if len(args) > 0 {
		url = args[0]
	}

	cmdCtx, err := NewCommandContext(cmd, url)
	if err != nil {
		return err
	}

	printer := newReportPrinter(cmdCtx.Renderer)
	runner := cmdCtx.Runner(cmdCtx.Client(), printer)

	cmdCtx.Logger.Debug("starting lint run", "url", cmdCtx.Cfg.URL, "config_file", cmdCtx.Cfg.ConfigFile)
	report := runner.Run(cmd.Context())
	if printer.err != nil {
		return printer.err
	}
	if report.ExitCode != lint.ExitValid {
		return &ExitError{Code: report.ExitCode}
	}
	return nil
}

// reportPrinter renders lint progress in the renderer's mode.
type reportPrinter struct {
	r   *output.Renderer
	err error
}

func newReportPrinter(r *output.Renderer) *reportPrinter {
	return &reportPrinter{r: r}
}

// Linting implements lint.Reporter.
func (p *reportPrinter) Linting(lintURL, token string) {
	switch p.r.EffectiveMode() {
	case output.ModeJSON:
	case output.ModeMarkdown:
		p.r.Header(2, "GitLab CI lint")
		p.r.Println(lint.UsingLinterLine(lintURL, token))
		p.r.Println("")
	default:
		p.r.Println(lint.UsingLinterLine(lintURL, token))
	}
}

// Done implements lint.Reporter.
func (p *reportPrinter) Done(report *lint.Report) {
	switch p.r.EffectiveMode() {
	case output.ModeJSON:
		p.err = p.r.JSON(report)
	case output.ModeMarkdown:
		p.markdown(report)
	default:
		p.text(report)
	}
}

// hasMessageBlock reports whether a separated message block is printed.
// Invalid files always get one, even without errors.
func hasMessageBlock(report *lint.Report) bool {
	return report.Outcome == lint.OutcomeInvalid || len(report.Messages) > 0
}

func (p *reportPrinter) text(report *lint.Report) {
	r := p.r
	switch report.Outcome {
	case lint.OutcomeCannotOpen:
		r.Error("Cannot open " + report.ConfigPath)
	case lint.OutcomeConnectionError:
		r.Error("Error connecting to Gitlab: " + report.Error)
		if report.Hint != "" {
			r.Warning(report.Hint)
		}
	case lint.OutcomeUnknownResponse:
		r.Error(lint.UnknownResponseMessage)
	default:
		if !hasMessageBlock(report) {
			return
		}
		style := r.Styles().Warning
		if report.Outcome == lint.OutcomeInvalid {
			style = r.Styles().Error
		}
		r.Println(messageSeparator)
		for _, msg := range report.Messages {
			// Styling pads multi-line messages, so plain output keeps them verbatim.
			if r.IsTTY() {
				msg = style.Render(msg)
			}
			r.Println(msg)
		}
		r.Println(messageSeparator)
	}
}

func (p *reportPrinter) markdown(report *lint.Report) {
	r := p.r
	switch report.Outcome {
	case lint.OutcomeCannotOpen:
		r.Error("Cannot open `" + report.ConfigPath + "`")
		return
	case lint.OutcomeConnectionError:
		r.Error("Error connecting to Gitlab: " + report.Error)
		if report.Hint != "" {
			r.Warning(report.Hint)
		}
		return
	case lint.OutcomeUnknownResponse:
		r.Error(lint.UnknownResponseMessage)
		return
	}

	r.StatusLine(report.ConfigPath, string(report.Outcome), "")
	r.Println("")
	if !hasMessageBlock(report) {
		return
	}

	kind := "warning"
	if report.Outcome == lint.OutcomeInvalid {
		kind = "error"
	}
	rows := make([][]string, 0, len(report.Messages))
	for _, msg := range report.Messages {
		rows = append(rows, []string{kind, msg})
	}
	r.Table([]string{"Type", "Message"}, rows)
}
