package gitlab

import "strings"

// LintPath is the lint endpoint path relative to the API base URL.
const LintPath = "/ci/lint"

// NormalizeBaseURL strips trailing slashes and a trailing lint endpoint
// suffix so that "https://host/api/v4/", "https://host/api/v4/ci/lint" and
// "https://host/api/v4" all normalize to the same base.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	u = strings.TrimSuffix(u, LintPath)
	return strings.TrimRight(u, "/")
}

// LintURL returns the canonical lint endpoint for a base URL.
func LintURL(base string) string {
	return NormalizeBaseURL(base) + LintPath
}
