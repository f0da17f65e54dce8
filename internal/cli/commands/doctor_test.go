package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/leapstack-labs/gitlabci-lint/internal/cli/testutil"
	"github.com/leapstack-labs/gitlabci-lint/internal/gitlab"
	"github.com/leapstack-labs/gitlabci-lint/internal/testutil"
)

func findCheck(t *testing.T, out *DoctorOutput, id string) HealthCheck {
	t.Helper()
	for _, c := range out.HealthChecks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("check %q not found", id)
	return HealthCheck{}
}

func TestBuildDoctorOutput(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		ciPath      string
		project     string
		status      int
		files       map[string]string
		wantStatus  map[string]string
		wantErrors  int
		wantWarns   int
		wantPathHas string
	}{
		{
			name:    "healthy without token",
			project: `{"ci_config_path": ""}`,
			status:  http.StatusOK,
			files:   map[string]string{".gitlab-ci.yml": ciContent},
			wantStatus: map[string]string{
				"token":          checkWarn,
				"project":        checkPass,
				"ci-config-file": checkPass,
			},
			wantWarns:   1,
			wantPathHas: ".gitlab-ci.yml (default)",
		},
		{
			name:    "project path is used",
			token:   "tok",
			project: `{"ci_config_path": "ci/pipeline.yml"}`,
			status:  http.StatusOK,
			files:   map[string]string{"ci/pipeline.yml": ciContent},
			wantStatus: map[string]string{
				"token":          checkPass,
				"ci-config-file": checkPass,
			},
			wantPathHas: "ci/pipeline.yml (project)",
		},
		{
			name:    "configured path wins",
			token:   "tok",
			ciPath:  "local.yml",
			project: `{"ci_config_path": "ci/pipeline.yml"}`,
			status:  http.StatusOK,
			files:   map[string]string{"local.yml": ""},
			wantStatus: map[string]string{
				"ci-config-file": checkWarn,
			},
			wantWarns:   1,
			wantPathHas: "local.yml (configured)",
		},
		{
			name:    "unauthorized and missing file",
			project: `{"message": "401 Unauthorized"}`,
			status:  http.StatusUnauthorized,
			wantStatus: map[string]string{
				"project":        checkError,
				"ci-config-file": checkError,
			},
			wantErrors:  2,
			wantWarns:   1,
			wantPathHas: ".gitlab-ci.yml (default)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := clitest.SetupTestProject(t)
			for name, content := range tt.files {
				clitest.WriteFile(t, dir, name, content)
			}

			fake := testutil.NewFakeGitLab(t)
			fake.SetProject(tt.status, tt.project)

			cfg := testConfig(fake.BaseURL())
			cfg.Token = tt.token
			cfg.CIConfigPath = tt.ciPath
			client := gitlab.NewClient(gitlab.Options{BaseURL: cfg.URL, Token: cfg.Token})

			out := buildDoctorOutput(context.Background(), cfg, client)

			for id, want := range tt.wantStatus {
				assert.Equal(t, want, findCheck(t, out, id).Status, "check %s", id)
			}
			assert.Equal(t, tt.wantErrors, out.ErrorCount)
			assert.Equal(t, tt.wantWarns, out.WarnCount)
			assert.Contains(t, findCheck(t, out, "ci-config-path").Detail, tt.wantPathHas)
		})
	}
}

func TestDoctorCommand_Text(t *testing.T) {
	dir := clitest.SetupTestProject(t)
	clitest.WriteFile(t, dir, ".gitlab-ci.yml", ciContent)
	fake := testutil.NewFakeGitLab(t)

	stdout, _, err := execute(t, NewDoctorCommand(), testConfig(fake.BaseURL()))
	require.NoError(t, err)

	for _, want := range []string{"Configuration", "Connectivity", "Local Files", "All checks passed with 1 warning(s)"} {
		assert.Contains(t, stdout, want)
	}
	clitest.AssertNoANSI(t, stdout)
}

func TestDoctorCommand_FailureExitsOne(t *testing.T) {
	clitest.SetupTestProject(t)
	fake := testutil.NewFakeGitLab(t)

	cfg := testConfig(fake.BaseURL())
	cfg.OutputFormat = "markdown"
	stdout, _, err := execute(t, NewDoctorCommand(), cfg)
	assert.Equal(t, 1, ExitCode(err))

	assert.Contains(t, stdout, "## Local Files")
	assert.Contains(t, stdout, "**[ERROR]** CI config file: Cannot open .gitlab-ci.yml")
	clitest.AssertValidMarkdown(t, stdout)
}

func TestDoctorCommand_JSON(t *testing.T) {
	dir := clitest.SetupTestProject(t)
	clitest.WriteFile(t, dir, ".gitlab-ci.yml", ciContent)
	fake := testutil.NewFakeGitLab(t)

	cfg := testConfig(fake.BaseURL())
	cfg.Token = "tok"
	cfg.OutputFormat = "json"
	stdout, _, err := execute(t, NewDoctorCommand(), cfg)
	require.NoError(t, err)

	var out DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Zero(t, out.ErrorCount)
	assert.Zero(t, out.WarnCount)
	assert.Len(t, out.HealthChecks, 6)
}
