// internal/tools/tool.go
package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"research-crew/internal/common/errors"
	"research-crew/internal/common/metrics"
)

// Tool is a stateless text-in/text-out capability an agent role may hold.
type Tool interface {
	// ID is the stable key roles and stages refer to, e.g. "web-search".
	ID() string
	// Name is the human-facing title printed in stage output blocks.
	Name() string
	Description() string
	Execute(ctx context.Context, input string) (string, error)
}

// InputKind describes what a tool expects as its single string argument.
type InputKind string

const (
	InputText InputKind = "text"
	InputJSON InputKind = "json"
)

// Describer is implemented by tools that publish manifest metadata.
type Describer interface {
	Metadata() Metadata
}

// Metadata describes a tool for the registry manifest.
type Metadata struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	InputKind        InputKind `json:"inputKind"`
	ReliabilityScore float64   `json:"reliabilityScore"`
}

const defaultReliability = 0.95

// Describe returns t's metadata, filling a default when t does not publish any.
func Describe(t Tool) Metadata {
	if d, ok := t.(Describer); ok {
		return d.Metadata()
	}
	return Metadata{
		ID:               t.ID(),
		Name:             t.Name(),
		Description:      t.Description(),
		InputKind:        InputText,
		ReliabilityScore: defaultReliability,
	}
}

// ==========================
// Errors
// ==========================

// ToolError is a typed tool failure. Message is the descriptive text that is
// embedded into stage output when the pipeline runs with the embed policy.
type ToolError struct {
	Code    errors.ErrorCode
	Tool    string
	Message string
	Input   string
	Cause   error
}

func (e *ToolError) Error() string {
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// NewInputError builds a TOOL_INPUT_INVALID error for a malformed payload.
func NewInputError(tool, message, input string, cause error) *ToolError {
	return &ToolError{
		Code:    errors.ErrCodeToolInputInvalid,
		Tool:    tool,
		Message: message,
		Input:   Truncate(input, InputPreviewLength),
		Cause:   cause,
	}
}

// InputPreviewLength bounds how much of an offending input is echoed back.
const InputPreviewLength = 100

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ==========================
// Invocation boundary
// ==========================

// Result is the outcome of one tool call.
type Result struct {
	Tool     string
	Output   string
	Err      *ToolError
	Duration time.Duration
}

// Text yields the output, or the error's descriptive text on failure.
func (r Result) Text() string {
	if r.Err != nil {
		return r.Err.Message
	}
	return r.Output
}

// Failed reports whether the call produced an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Invoke runs t and converts every failure, panics included, into a ToolError.
func Invoke(ctx context.Context, t Tool, input string) (res Result) {
	start := time.Now()
	res.Tool = t.ID()

	defer func() {
		if rec := recover(); rec != nil {
			res.Output = ""
			res.Err = executionError(t, input, fmt.Errorf("panic: %v", rec))
		}
		res.Duration = time.Since(start)

		metrics.ToolCalls.WithLabelValues(t.ID()).Inc()
		if res.Err != nil {
			metrics.ToolErrors.WithLabelValues(t.ID(), string(res.Err.Code)).Inc()
		}
	}()

	out, err := t.Execute(ctx, input)
	if err != nil {
		if te, ok := err.(*ToolError); ok {
			cp := *te
			if cp.Tool == "" {
				cp.Tool = t.ID()
			}
			res.Err = &cp
			return res
		}
		res.Err = executionError(t, input, err)
		return res
	}

	res.Output = out
	return res
}

func executionError(t Tool, input string, err error) *ToolError {
	preview := Truncate(input, InputPreviewLength)
	return &ToolError{
		Code: errors.ErrCodeToolExecutionFailed,
		Tool: t.ID(),
		Message: fmt.Sprintf("Error executing tool '%s' with input starting: '%s...'\nError: %s",
			t.Name(), preview, err.Error()),
		Input: preview,
		Cause: err,
	}
}

// ==========================
// Set
// ==========================

// Set resolves tool IDs to implementations.
type Set struct {
	tools map[string]Tool
}

// NewSet builds a Set, rejecting duplicate IDs.
func NewSet(ts ...Tool) (*Set, error) {
	s := &Set{tools: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		if t == nil {
			return nil, fmt.Errorf("nil tool")
		}
		if _, dup := s.tools[t.ID()]; dup {
			return nil, fmt.Errorf("duplicate tool id %q", t.ID())
		}
		s.tools[t.ID()] = t
	}
	return s, nil
}

// Get returns the tool registered under id.
func (s *Set) Get(id string) (Tool, bool) {
	t, ok := s.tools[id]
	return t, ok
}

// IDs returns the registered IDs in sorted order.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.tools))
	for id := range s.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Metadata returns manifest entries for every tool in ID order.
func (s *Set) Metadata() []Metadata {
	ids := s.IDs()
	out := make([]Metadata, 0, len(ids))
	for _, id := range ids {
		out = append(out, Describe(s.tools[id]))
	}
	return out
}
