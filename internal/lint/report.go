package lint

import "strings"

// Outcome is the terminal state of a lint run.
type Outcome string

const (
	OutcomeValid           Outcome = "valid"
	OutcomeInvalid         Outcome = "invalid"
	OutcomeUnknownResponse Outcome = "unknown_response"
	OutcomeCannotOpen      Outcome = "cannot_open"
	OutcomeConnectionError Outcome = "connection_error"
)

// AuthHint is printed when an unauthenticated lint request is rejected with 401.
const AuthHint = "The lint endpoint requires authentication. Please set GITLAB_TOKEN environment variable"

// Report describes one lint run. It is also the JSON output document.
type Report struct {
	RunID      string   `json:"run_id,omitempty"`
	LintURL    string   `json:"lint_url"`
	ConfigPath string   `json:"config_path"`
	Outcome    Outcome  `json:"outcome"`
	Shape      Shape    `json:"shape,omitempty"`
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	Error      string   `json:"error,omitempty"`
	Hint       string   `json:"hint,omitempty"`
	ExitCode   int      `json:"exit_code"`

	// Messages are printed between separators in text output.
	Messages []string `json:"-"`
}

// applyVerdict copies a response classification into the report.
func (r *Report) applyVerdict(v Verdict) {
	r.Shape = v.Shape
	r.Valid = v.Valid
	r.Errors = nonNil(v.Errors)
	r.Warnings = nonNil(v.Warnings)
	r.Messages = v.Messages
	r.ExitCode = v.ExitCode

	switch {
	case v.Shape == ShapeUnknown:
		r.Outcome = OutcomeUnknownResponse
	case v.Valid:
		r.Outcome = OutcomeValid
	default:
		r.Outcome = OutcomeInvalid
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// MaskToken returns one asterisk per character of token.
func MaskToken(token string) string {
	return strings.Repeat("*", len(token))
}

// UsingLinterLine is the status line printed before a lint request.
func UsingLinterLine(lintURL, token string) string {
	line := "Using linter: " + lintURL
	if token != "" {
		line += " with token " + MaskToken(token)
	}
	return line
}
