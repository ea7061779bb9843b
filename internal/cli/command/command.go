// Package command maps REPL commands onto HTTP requests.
package command

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Params holds parsed key=value input.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

func (p Params) Set(key, value string) {
	p[strings.ToLower(key)] = value
}

func (p Params) Has(key string) bool {
	_, ok := p[strings.ToLower(key)]
	return ok
}

// RequestSpec is the built HTTP request.
type RequestSpec struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// runBody is the execution request wire shape.
type runBody struct {
	Script  string `json:"script"`
	Kind    string `json:"kind,omitempty"`
	Timeout *int   `json:"timeout,omitempty"`
	APIKey  string `json:"apiKey"`
}

// BuildRun assembles the run-script request. The script body comes from
// script=... inline or file=... on disk.
func BuildRun(params Params, apiKey string) (RequestSpec, error) {
	script := params.Get("script")
	if path := params.Get("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return RequestSpec{}, fmt.Errorf("read script file failed: %w", err)
		}
		script = string(data)
	}
	if script == "" {
		return RequestSpec{}, fmt.Errorf("script is required (script=... or file=...)")
	}

	body := runBody{
		Script: script,
		Kind:   params.Get("kind"),
		APIKey: apiKey,
	}
	if raw := params.Get("timeout"); raw != "" {
		seconds, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return RequestSpec{}, fmt.Errorf("invalid timeout: %w", err)
		}
		body.Timeout = &seconds
	}

	data, err := json.Marshal(body)
	if err != nil {
		return RequestSpec{}, fmt.Errorf("marshal request failed: %w", err)
	}
	return RequestSpec{Method: "POST", Path: "/api/run-script", Body: data}, nil
}

// BuildFetch assembles a file retrieval request, with an optional
// range=start-end parameter mapped onto the Range header.
func BuildFetch(params Params) (RequestSpec, error) {
	path := params.Get("path")
	if path == "" {
		return RequestSpec{}, fmt.Errorf("path is required")
	}
	headers := map[string]string{}
	if r := params.Get("range"); r != "" {
		headers["Range"] = "bytes=" + r
	}
	return RequestSpec{Method: "GET", Path: "/files/" + escapePath(path), Headers: headers}, nil
}

// BuildHead assembles a file existence probe.
func BuildHead(params Params) (RequestSpec, error) {
	path := params.Get("path")
	if path == "" {
		return RequestSpec{}, fmt.Errorf("path is required")
	}
	return RequestSpec{Method: "HEAD", Path: "/files/" + escapePath(path)}, nil
}

// BuildHealth assembles the health probe.
func BuildHealth() RequestSpec {
	return RequestSpec{Method: "GET", Path: "/health"}
}

func escapePath(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
