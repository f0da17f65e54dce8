// Package config defines the on-disk project configuration file for
// gitlabci-lint. It is shared by the CLI loader, which layers it under
// environment variables and flags, and by the init command, which writes it.
package config

// ProjectFile is the schema of .gitlabci-lint.yaml.
//
// Files written by init never carry a token. A token kept in the file
// should reference an environment variable, e.g. token: ${GITLAB_TOKEN}.
type ProjectFile struct {
	URL          string `koanf:"url" yaml:"url"`
	Token        string `koanf:"token" yaml:"token,omitempty"`
	Timeout      string `koanf:"timeout" yaml:"timeout,omitempty"`
	Output       string `koanf:"output" yaml:"output,omitempty"`
	CIConfigPath string `koanf:"ci_config_path" yaml:"ci_config_path,omitempty"`
	Verbose      bool   `koanf:"verbose" yaml:"verbose,omitempty"`
}

// DefaultProjectFile returns the file written by init.
func DefaultProjectFile() *ProjectFile {
	return &ProjectFile{
		URL:     DefaultURL,
		Timeout: DefaultTimeout.String(),
		Output:  DefaultOutput,
	}
}
