// Package output renders command results for terminals, pipes and machines.
//
// Four modes are supported:
//   - text: plain lines, styled with color when writing to a terminal
//   - markdown: headings and tables suitable for CI job logs and PR comments
//   - json: a single machine-readable document
//   - auto: text on a terminal, markdown otherwise
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how a Renderer formats output.
type OutputMode string //nolint:revive // output.OutputMode reads fine at call sites

const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Modes lists the accepted mode names, for flag completion and validation.
var Modes = []string{string(ModeText), string(ModeMarkdown), string(ModeJSON), string(ModeAuto)}

// Mode converts a user supplied name to an OutputMode. Unknown or empty
// names fall back to text.
func Mode(s string) OutputMode {
	m, err := ParseMode(s)
	if err != nil {
		return ModeText
	}
	return m
}

// ParseMode converts a user supplied name to an OutputMode, rejecting
// unknown names. The empty string is text.
func ParseMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "plain":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	case "auto":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected one of %s)", s, strings.Join(Modes, ", "))
	}
}
