package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Header  lipgloss.Style
	Path    lipgloss.Style
}

// newStyles builds styles bound to a lipgloss renderer so that color is
// only emitted when that renderer's profile supports it.
func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Info:    r.NewStyle().Foreground(lipgloss.Color("4")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    r.NewStyle().Bold(true),
		Header:  r.NewStyle().Bold(true).Underline(true),
		Path:    r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}
