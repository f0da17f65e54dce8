package gitlab

import (
	"bytes"
	"encoding/json"
)

// DefaultCIConfigPath is used when the project descriptor does not name a
// custom CI configuration file.
const DefaultCIConfigPath = ".gitlab-ci.yml"

// Project is the subset of the project descriptor this tool reads.
type Project struct {
	CIConfigPath string `json:"ci_config_path"`
}

// LintRequest is the payload POSTed to the lint endpoint.
type LintRequest struct {
	Content string `json:"content"`
}

// LintResponse is the decoded lint endpoint body.
//
// The response shape changed across GitLab releases, so the body is kept as
// a raw key set and callers check for key presence instead of relying on
// zero values.
type LintResponse map[string]json.RawMessage

// ParseLintResponse decodes a lint response body. A body that is not a JSON
// object yields an empty response, which has no recognizable shape.
func ParseLintResponse(body []byte) LintResponse {
	var resp LintResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp == nil {
		return LintResponse{}
	}
	return resp
}

// Has reports whether key is present in the response.
func (r LintResponse) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the value of key if it is a JSON string.
func (r LintResponse) String(key string) (string, bool) {
	raw, ok := r[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Truthy reports whether the value of key is truthy: present and not
// false, null, zero, an empty string, an empty array or an empty object.
func (r LintResponse) Truthy(key string) bool {
	raw, ok := r[key]
	if !ok {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// Messages returns the entries of a message list such as "errors" or
// "warnings". Non-string entries are rendered as their JSON text. A missing
// or non-array value yields nil.
func (r LintResponse) Messages(key string) []string {
	raw, ok := r[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			msgs = append(msgs, s)
			continue
		}
		msgs = append(msgs, string(bytes.TrimSpace(item)))
	}
	return msgs
}
