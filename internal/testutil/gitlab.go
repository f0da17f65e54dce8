package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ProjectPath is the API path the fake server serves the project descriptor on.
const ProjectPath = "/api/v4/projects/42"

// LintCall records one request to the fake lint endpoint.
type LintCall struct {
	Token   string
	Content string
}

// FakeGitLab is an httptest server answering project descriptor and lint
// requests with canned responses.
type FakeGitLab struct {
	*httptest.Server

	mu            sync.Mutex
	projectStatus int
	projectBody   string
	lintStatus    int
	lintBody      string
	projectCalls  int
	lintCalls     []LintCall
}

// NewFakeGitLab starts a fake server that is closed when the test ends.
// By default the project has no custom CI path and every lint succeeds.
func NewFakeGitLab(t testing.TB) *FakeGitLab {
	t.Helper()
	f := &FakeGitLab{
		projectStatus: http.StatusOK,
		projectBody:   `{"id": 42, "ci_config_path": ""}`,
		lintStatus:    http.StatusOK,
		lintBody:      `{"valid": true, "errors": [], "warnings": []}`,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// BaseURL returns the project API URL to pass to the linter.
func (f *FakeGitLab) BaseURL() string {
	return f.URL + ProjectPath
}

// SetProject sets the project descriptor response.
func (f *FakeGitLab) SetProject(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectStatus = status
	f.projectBody = body
}

// SetLint sets the lint endpoint response.
func (f *FakeGitLab) SetLint(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lintStatus = status
	f.lintBody = body
}

// ProjectCalls returns how many descriptor requests were served.
func (f *FakeGitLab) ProjectCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projectCalls
}

// LintCalls returns the lint requests received so far.
func (f *FakeGitLab) LintCalls() []LintCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LintCall(nil), f.lintCalls...)
}

func (f *FakeGitLab) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if strings.HasSuffix(r.URL.Path, "/ci/lint") && r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Content string `json:"content"`
		}
		_ = json.Unmarshal(body, &payload)
		f.lintCalls = append(f.lintCalls, LintCall{
			Token:   r.Header.Get("PRIVATE-TOKEN"),
			Content: payload.Content,
		})
		w.WriteHeader(f.lintStatus)
		_, _ = io.WriteString(w, f.lintBody)
		return
	}

	if r.URL.Path == ProjectPath && r.Method == http.MethodGet {
		f.projectCalls++
		w.WriteHeader(f.projectStatus)
		_, _ = io.WriteString(w, f.projectBody)
		return
	}

	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, `{"message": "404 Not Found"}`)
}
