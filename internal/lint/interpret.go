// Package lint implements the CI configuration lint workflow: resolving the
// CI file, reading it, submitting it to GitLab and interpreting the answer.
package lint

import "github.com/leapstack-labs/gitlabci-lint/internal/gitlab"

// Process exit codes reported by a lint run.
const (
	ExitValid           = 0
	ExitInvalidLegacy   = 1
	ExitInvalid         = 2
	ExitUnknownResponse = 3
	ExitCannotOpen      = 11
	ExitConnection      = 12
)

// UnknownResponseMessage is printed when the lint response matches no known shape.
const UnknownResponseMessage = "Unknown gitlab response. Did gitlab update the ci linter response again?"

// Shape identifies which lint response format GitLab answered with.
type Shape string

const (
	// ShapeLegacy is the pre-15.7 format keyed on "status".
	ShapeLegacy Shape = "legacy"
	// ShapeCurrent is the 15.7+ format keyed on "valid".
	ShapeCurrent Shape = "current"
	// ShapeUnknown has neither key.
	ShapeUnknown Shape = "unknown"
)

// Verdict is the classification of one lint response.
type Verdict struct {
	Shape    Shape
	Valid    bool
	Errors   []string
	Warnings []string
	// Messages are the lines to print between separators: errors for an
	// invalid file, warnings for a valid one.
	Messages []string
	ExitCode int
}

// Interpret classifies a lint response. "status" is checked before "valid",
// so a response carrying both is read as the legacy shape.
func Interpret(resp gitlab.LintResponse) Verdict {
	v := Verdict{
		Errors:   resp.Messages("errors"),
		Warnings: resp.Messages("warnings"),
	}

	switch {
	case resp.Has("status"):
		v.Shape = ShapeLegacy
		status, _ := resp.String("status")
		v.Valid = status == "valid"
		if !v.Valid {
			v.Messages = v.Errors
			v.ExitCode = ExitInvalidLegacy
		} else if len(v.Warnings) > 0 {
			v.Messages = v.Warnings
		}

	case resp.Has("valid"):
		v.Shape = ShapeCurrent
		v.Valid = resp.Truthy("valid")
		if !v.Valid {
			v.Messages = v.Errors
			v.ExitCode = ExitInvalid
		} else if len(v.Warnings) > 0 {
			v.Messages = v.Warnings
		}

	default:
		v.Shape = ShapeUnknown
		v.ExitCode = ExitUnknownResponse
	}

	return v
}
