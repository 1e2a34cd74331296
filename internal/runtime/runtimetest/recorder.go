// Package runtimetest provides a recording runtime.Runner for tests.
package runtimetest

import (
	"context"
	"strings"
	"sync"

	"github.com/ytani/musicbox-installer/internal/runtime"
)

// Response is the scripted result for commands matching a prefix.
type Response struct {
	Output string
	Err    error
}

// Recorder records every command and answers from scripted responses.
// Commands without a scripted response succeed with empty output.
type Recorder struct {
	mu        sync.Mutex
	Commands  []runtime.Command
	responses map[string]Response
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{responses: make(map[string]Response)}
}

// On scripts the response for any command whose rendered line contains substr.
func (r *Recorder) On(substr string, resp Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[substr] = resp
}

// Run records c.
func (r *Recorder) Run(_ context.Context, c runtime.Command) error {
	return r.record(c).Err
}

// Output records c and returns its scripted output.
func (r *Recorder) Output(_ context.Context, c runtime.Command) (string, error) {
	resp := r.record(c)
	return resp.Output, resp.Err
}

// Lines returns every recorded command line in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		lines = append(lines, c.String())
	}
	return lines
}

// Ran reports whether any recorded command line contains substr.
func (r *Recorder) Ran(substr string) bool {
	for _, line := range r.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (r *Recorder) record(c runtime.Command) Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, c)
	line := c.String()
	// Longest matching key wins so specific scripts override broad ones.
	best := ""
	for key := range r.responses {
		if strings.Contains(line, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return Response{}
	}
	return r.responses[best]
}
