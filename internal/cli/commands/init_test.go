package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/leapstack-labs/gitlabci-lint/internal/cli/testutil"
	intconfig "github.com/leapstack-labs/gitlabci-lint/internal/config"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string) // setup before running
		args     []string
		wantCode int
		wantFile string
	}{
		{
			name:     "init empty directory",
			args:     []string{},
			wantFile: intconfig.ConfigFileName,
		},
		{
			name:     "init into new subdirectory",
			args:     []string{"nested/project"},
			wantFile: filepath.Join("nested", "project", intconfig.ConfigFileName),
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				clitest.WriteFile(t, dir, intconfig.ConfigFileName, "url: https://example.com\n")
			},
			args:     []string{},
			wantCode: ExitUsage,
		},
		{
			name: "init existing alternate config with force",
			setupDir: func(t *testing.T, dir string) {
				clitest.WriteFile(t, dir, intconfig.ConfigFileNameAlt, "url: https://example.com\n")
			},
			args:     []string{"--force"},
			wantFile: intconfig.ConfigFileNameAlt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := clitest.SetupTestProject(t)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			_, _, err := execute(t, NewInitCommand(), testConfig("https://gitlab.com/api/v4"), tt.args...)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, ExitCode(err))
				return
			}
			require.NoError(t, err)

			_, err = os.Stat(filepath.Join(tmpDir, tt.wantFile))
			assert.NoError(t, err, "expected %q to exist", tt.wantFile)
		})
	}
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := clitest.SetupTestProject(t)

	stdout, _, err := execute(t, NewInitCommand(), testConfig("https://gitlab.com/api/v4"),
		"--url", "https://gitlab.example.com/api/v4/projects/7/ci/lint")
	require.NoError(t, err)
	assert.Contains(t, stdout, "gitlabci-lint initialized!")

	content, err := os.ReadFile(filepath.Join(tmpDir, intconfig.ConfigFileName))
	require.NoError(t, err)

	for _, expected := range []string{
		"url: https://gitlab.example.com/api/v4/projects/7\n",
		"timeout: 30s",
		"output: text",
	} {
		assert.Contains(t, string(content), expected)
	}

	pf, err := intconfig.LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.example.com/api/v4/projects/7", pf.URL)
}

func TestInitForceKeepsValuesAndDropsToken(t *testing.T) {
	tmpDir := clitest.SetupTestProject(t)
	clitest.WriteFile(t, tmpDir, intconfig.ConfigFileName, `url: https://gitlab.example.com/api/v4/projects/7
token: glpat-secret
timeout: 10s
ci_config_path: ci/main.yml
`)

	_, _, err := execute(t, NewInitCommand(), testConfig("https://gitlab.com/api/v4"), "--force")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tmpDir, intconfig.ConfigFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "glpat-secret")

	pf, err := intconfig.LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.example.com/api/v4/projects/7", pf.URL)
	assert.Equal(t, "10s", pf.Timeout)
	assert.Equal(t, "ci/main.yml", pf.CIConfigPath)
	assert.Empty(t, pf.Token)
}
