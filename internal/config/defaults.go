package config

import "github.com/leapstack-labs/gitlabci-lint/internal/gitlab"

// Default configuration values.
const (
	DefaultURL     = gitlab.DefaultBaseURL
	DefaultTimeout = gitlab.DefaultTimeout
	DefaultOutput  = "text"

	// TokenEnvVar is the conventional variable holding a GitLab token.
	TokenEnvVar = "GITLAB_TOKEN"
	// EnvPrefix prefixes every tool-specific environment variable.
	EnvPrefix = "GITLABCI_LINT_"
)
