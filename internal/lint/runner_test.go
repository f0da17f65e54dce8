package lint

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/gitlabci-lint/internal/gitlab"
	"github.com/leapstack-labs/gitlabci-lint/internal/testutil"
)

type recordingReporter struct {
	lintingURL   string
	lintingToken string
	lintingCalls int
	reports      []*Report
}

func (r *recordingReporter) Linting(lintURL, token string) {
	r.lintingCalls++
	r.lintingURL = lintURL
	r.lintingToken = token
}

func (r *recordingReporter) Done(report *Report) {
	r.reports = append(r.reports, report)
}

type fakeAPI struct {
	path      string
	resp      gitlab.LintResponse
	err       error
	pathCalls int
	contents  []string
}

func (f *fakeAPI) CIConfigPath(context.Context) string {
	f.pathCalls++
	return f.path
}

func (f *fakeAPI) LintURL() string { return "https://gitlab.test/api/v4/ci/lint" }

func (f *fakeAPI) Lint(_ context.Context, content string) (gitlab.LintResponse, error) {
	f.contents = append(f.contents, content)
	return f.resp, f.err
}

func writeCIFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	path := writeCIFile(t, dir, ".gitlab-ci.yml", "test:\n  script: go test ./...\n")

	tests := []struct {
		name        string
		resp        string
		wantOutcome Outcome
		wantExit    int
	}{
		{"legacy valid", `{"status": "valid", "warnings": []}`, OutcomeValid, ExitValid},
		{"legacy invalid", `{"status": "invalid", "errors": ["bad syntax"]}`, OutcomeInvalid, ExitInvalidLegacy},
		{"current invalid", `{"valid": false, "errors": ["x"], "warnings": []}`, OutcomeInvalid, ExitInvalid},
		{"unknown", `{}`, OutcomeUnknownResponse, ExitUnknownResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{path: path, resp: gitlab.ParseLintResponse([]byte(tt.resp))}
			rep := &recordingReporter{}
			runner := NewRunner(api, rep, Options{Token: "abc", RunID: "run-1", Logger: testutil.NewTestLogger(t)})

			report := runner.Run(context.Background())

			assert.Equal(t, tt.wantOutcome, report.Outcome)
			assert.Equal(t, tt.wantExit, report.ExitCode)
			assert.Equal(t, path, report.ConfigPath)
			assert.Equal(t, "run-1", report.RunID)
			assert.Equal(t, []string{"test:\n  script: go test ./...\n"}, api.contents)
			assert.Equal(t, 1, rep.lintingCalls)
			assert.Equal(t, "abc", rep.lintingToken)
			require.Len(t, rep.reports, 1)
			assert.Same(t, report, rep.reports[0])
		})
	}
}

func TestRunner_MissingFile(t *testing.T) {
	api := &fakeAPI{path: filepath.Join(t.TempDir(), "missing.yml")}
	rep := &recordingReporter{}

	report := NewRunner(api, rep, Options{}).Run(context.Background())

	assert.Equal(t, OutcomeCannotOpen, report.Outcome)
	assert.Equal(t, ExitCannotOpen, report.ExitCode)
	assert.Empty(t, api.contents, "no lint request should be sent")
	assert.Zero(t, rep.lintingCalls)
	require.Len(t, rep.reports, 1)
}

func TestRunner_DirectoryIsUnreadable(t *testing.T) {
	api := &fakeAPI{path: t.TempDir()}
	report := NewRunner(api, &recordingReporter{}, Options{}).Run(context.Background())

	assert.Equal(t, ExitCannotOpen, report.ExitCode)
	assert.Empty(t, api.contents)
}

func TestRunner_ConfigPathOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeCIFile(t, dir, "ci/custom.yml", "stages: [build]\n")
	api := &fakeAPI{path: "should-not-be-used.yml", resp: gitlab.LintResponse{"valid": []byte("true")}}

	report := NewRunner(api, &recordingReporter{}, Options{ConfigPath: path}).Run(context.Background())

	assert.Equal(t, ExitValid, report.ExitCode)
	assert.Equal(t, path, report.ConfigPath)
	assert.Zero(t, api.pathCalls)
}

func TestRunner_ConnectionError(t *testing.T) {
	dir := t.TempDir()
	path := writeCIFile(t, dir, ".gitlab-ci.yml", "x")

	tests := []struct {
		name     string
		token    string
		err      error
		wantHint bool
	}{
		{"unauthorized without token", "", &gitlab.HTTPError{StatusCode: http.StatusUnauthorized}, true},
		{"unauthorized with token", "tok", &gitlab.HTTPError{StatusCode: http.StatusUnauthorized}, false},
		{"server error without token", "", &gitlab.HTTPError{StatusCode: http.StatusInternalServerError}, false},
		{"transport error", "", errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{path: path, err: tt.err}
			report := NewRunner(api, &recordingReporter{}, Options{Token: tt.token}).Run(context.Background())

			assert.Equal(t, OutcomeConnectionError, report.Outcome)
			assert.Equal(t, ExitConnection, report.ExitCode)
			assert.Equal(t, tt.err.Error(), report.Error)
			if tt.wantHint {
				assert.Equal(t, AuthHint, report.Hint)
			} else {
				assert.Empty(t, report.Hint)
			}
		})
	}
}

func TestRunner_AgainstFakeGitLab(t *testing.T) {
	dir := t.TempDir()
	path := writeCIFile(t, dir, "pipelines/main.yml", "build:\n  script: make\n")

	srv := testutil.NewFakeGitLab(t)
	srv.SetProject(http.StatusOK, `{"id": 42, "ci_config_path": "`+filepath.ToSlash(path)+`"}`)
	srv.SetLint(http.StatusOK, `{"valid": false, "errors": ["jobs:build config contains unknown keys: scrip"], "warnings": []}`)

	client := gitlab.NewClient(gitlab.Options{BaseURL: srv.BaseURL(), Token: "tok"})
	rep := &recordingReporter{}
	report := NewRunner(client, rep, Options{Token: "tok"}).Run(context.Background())

	assert.Equal(t, path, report.ConfigPath)
	assert.Equal(t, ExitInvalid, report.ExitCode)
	assert.Equal(t, []string{"jobs:build config contains unknown keys: scrip"}, report.Messages)
	assert.Equal(t, srv.BaseURL()+"/ci/lint", rep.lintingURL)

	calls := srv.LintCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "tok", calls[0].Token)
	assert.Equal(t, "build:\n  script: make\n", calls[0].Content)
}

func TestRunner_DescriptorFailureFallsBackToDefault(t *testing.T) {
	srv := testutil.NewFakeGitLab(t)
	srv.SetProject(http.StatusInternalServerError, `oops`)

	client := gitlab.NewClient(gitlab.Options{BaseURL: srv.BaseURL()})
	runner := NewRunner(client, &recordingReporter{}, Options{})

	assert.Equal(t, gitlab.DefaultCIConfigPath, runner.ResolveConfigPath(context.Background()))
	assert.Equal(t, 1, srv.ProjectCalls())
}
