package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = ".gitlabci-lint.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = ".gitlabci-lint.yml"

// maxUpwardSearchLevels limits how far FindConfigFileUpward climbs.
const maxUpwardSearchLevels = 10

// LoadFromDir loads a ProjectFile from dir.
// Returns nil, nil if no config file is found.
func LoadFromDir(dir string) (*ProjectFile, error) {
	path := FindConfigFile(dir)
	if path == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var pf ProjectFile
	if err := k.Unmarshal("", &pf); err != nil {
		return nil, fmt.Errorf("unable to decode config file %s: %w", path, err)
	}
	return &pf, nil
}

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// FindConfigFileUpward searches startDir and its parents for a config file,
// so the tool works from any subdirectory of a repository.
func FindConfigFileUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if path := FindConfigFile(dir); path != "" {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// WriteProjectFile writes pf as YAML to path.
func WriteProjectFile(path string, pf *ProjectFile) error {
	data, err := yamlv3.Marshal(pf)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	header := "# gitlabci-lint configuration.\n" +
		"# Set the token through the " + TokenEnvVar + " environment variable\n" +
		"# or reference it here as: token: ${" + TokenEnvVar + "}\n"

	if err := os.WriteFile(path, append([]byte(header), data...), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
