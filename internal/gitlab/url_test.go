package gitlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", "https://gitlab.com/api/v4", "https://gitlab.com/api/v4"},
		{"trailing slash", "https://gitlab.com/api/v4/", "https://gitlab.com/api/v4"},
		{"many trailing slashes", "https://gitlab.com/api/v4///", "https://gitlab.com/api/v4"},
		{"lint suffix", "https://gitlab.com/api/v4/ci/lint", "https://gitlab.com/api/v4"},
		{"lint suffix and slash", "https://gitlab.com/api/v4/ci/lint/", "https://gitlab.com/api/v4"},
		{"project url", "https://gitlab.example.com/api/v4/projects/42", "https://gitlab.example.com/api/v4/projects/42"},
		{"project lint url", "https://gitlab.example.com/api/v4/projects/42/ci/lint", "https://gitlab.example.com/api/v4/projects/42"},
		// Only a whole path suffix is stripped, never trailing characters.
		{"suffix characters kept", "https://gitlab.example.com/api/v4/projects/clint", "https://gitlab.example.com/api/v4/projects/clint"},
		{"surrounding space", "  https://gitlab.com/api/v4/ ", "https://gitlab.com/api/v4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.input))
		})
	}
}

func TestLintURL_SameForEquivalentBases(t *testing.T) {
	bases := []string{
		"https://gitlab.example.com/api/v4",
		"https://gitlab.example.com/api/v4/",
		"https://gitlab.example.com/api/v4/ci/lint",
		"https://gitlab.example.com/api/v4/ci/lint/",
	}

	want := "https://gitlab.example.com/api/v4/ci/lint"
	for _, base := range bases {
		assert.Equal(t, want, LintURL(base), "base %q", base)
	}
}
