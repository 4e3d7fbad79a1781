// Package websearch wraps a search backend as the research tool.
package websearch

import (
	"context"
	"fmt"
	"strings"

	commonerrors "research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/tools"
)

const (
	name        = "Advanced Research Tool"
	description = "Performs comprehensive web research on organizations, individuals, and industry trends using a web search API."

	noResults = "No results found."
)

type Tool struct {
	searcher Searcher
	logger   logger.Logger
}

func New(searcher Searcher, log logger.Logger) *Tool {
	return &Tool{
		searcher: searcher,
		logger:   log.With(map[string]interface{}{"tool": tools.IDWebSearch}),
	}
}

func (t *Tool) ID() string          { return tools.IDWebSearch }
func (t *Tool) Name() string        { return name }
func (t *Tool) Description() string { return description }

func (t *Tool) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:               t.ID(),
		Name:             name,
		Description:      description,
		InputKind:        tools.InputText,
		ReliabilityScore: 0.9,
	}
}

func (t *Tool) Execute(ctx context.Context, query string) (string, error) {
	t.logger.Info("executing web search", map[string]interface{}{"query": query})

	results, err := t.searcher.Search(ctx, query)
	if err != nil {
		code := commonerrors.ErrCodeSearchFailed
		if se, ok := commonerrors.AsStandardError(err); ok {
			code = se.Code
		}
		t.logger.Warn("web search failed", map[string]interface{}{
			"query":     query,
			"error":     err.Error(),
			"errorCode": code,
		})
		return "", &tools.ToolError{
			Code:    code,
			Tool:    t.ID(),
			Message: fmt.Sprintf("Error during web search for '%s': %s", query, describe(err)),
			Input:   tools.Truncate(query, tools.InputPreviewLength),
			Cause:   err,
		}
	}

	return fmt.Sprintf("Research Findings for '%s':\n\n"+
		"%s\n\n"+
		"---\nEnd of Search Results.\n"+
		"Key Insights (Example - requires further analysis):\n"+
		"- Potential market trends observed.\n"+
		"- Recent news or developments noted.\n"+
		"- Possible competitor activities identified.",
		query, FormatResults(results)), nil
}

// FormatResults renders hits as numbered blocks separated by blank lines.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return noResults
	}
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s", i+1, r.Title)
		if r.Snippet != "" {
			b.WriteString("\n   " + r.Snippet)
		}
		if r.Link != "" {
			b.WriteString("\n   Source: " + r.Link)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func describe(err error) string {
	if se, ok := commonerrors.AsStandardError(err); ok && se.Details != "" {
		return se.Message + ": " + se.Details
	}
	return err.Error()
}
