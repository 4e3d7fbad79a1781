// Package knowledge retrieves entries from the static consulting catalog
// by lexical scoring of the query against category and topic names.
package knowledge

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"research-crew/internal/tools"
)

const (
	name        = "Knowledge Base Tool"
	description = "Provides access to built-in knowledge on frameworks, models, guidelines, and industry insights."

	topicMatchScore    = 10
	categoryMatchScore = 3
	minScore           = 4
	minWordLength      = 3
)

// Match is the best scoring catalog entry for a query.
type Match struct {
	Category string
	Topic    string
	Text     string
	Score    float64
}

// Title renders the match as "<Category> - <Topic>".
func (m Match) Title() string {
	return tools.Humanize(m.Category) + " - " + tools.Humanize(m.Topic)
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), "_", " ")
}

// Best scores every catalog entry against query and returns the highest.
// The boolean is false when nothing scored above zero.
func Best(query string) (Match, bool) {
	q := normalize(query)

	var words []string
	for _, w := range strings.Fields(q) {
		if utf8.RuneCountInString(w) > minWordLength {
			words = append(words, w)
		}
	}

	var best Match
	for _, cat := range catalog {
		catName := normalize(cat.Name)
		for _, e := range cat.Entries {
			topicName := normalize(e.Topic)

			var score float64
			if strings.Contains(q, topicName) {
				score += topicMatchScore
			} else if strings.Contains(q, catName) {
				score += categoryMatchScore
			}
			for _, w := range words {
				if strings.Contains(topicName, w) {
					score++
				}
				if strings.Contains(catName, w) {
					score += 0.5
				}
			}

			if score > best.Score {
				best = Match{Category: cat.Name, Topic: e.Topic, Text: e.Text, Score: score}
			}
		}
	}
	return best, best.Score > 0
}

// Lookup answers query with a catalog entry, a topic listing for a matched
// category, or a listing of every category.
func Lookup(query string) string {
	if m, ok := Best(query); ok && m.Score > minScore {
		return fmt.Sprintf("Knowledge Base Result: **%s**\n\n%s", m.Title(), m.Text)
	}

	q := normalize(query)
	for _, cat := range catalog {
		if !strings.Contains(q, normalize(cat.Name)) {
			continue
		}
		topics := make([]string, 0, len(cat.Entries))
		for _, e := range cat.Entries {
			topics = append(topics, tools.Humanize(e.Topic))
		}
		return fmt.Sprintf("Found category match: **%s**. Available specific topics in this category:\n%s\n\n"+
			"Please refine your query for a specific topic (e.g., 'Tell me about SWOT Analysis').",
			tools.Humanize(cat.Name), strings.Join(topics, ", "))
	}

	names := make([]string, 0, len(catalog))
	for _, cat := range catalog {
		names = append(names, tools.Humanize(cat.Name))
	}
	return fmt.Sprintf("No specific knowledge base entry found matching '%s'.\n"+
		"Available top-level categories: %s.\n"+
		"Try queries like 'information on competitive analysis', 'details about objection handling', or 'insights for the retail industry'.",
		query, strings.Join(names, ", "))
}

type Tool struct{}

func New() *Tool {
	return &Tool{}
}

func (t *Tool) ID() string          { return tools.IDKnowledgeBase }
func (t *Tool) Name() string        { return name }
func (t *Tool) Description() string { return description }

func (t *Tool) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:               t.ID(),
		Name:             name,
		Description:      description,
		InputKind:        tools.InputText,
		ReliabilityScore: 0.95,
	}
}

func (t *Tool) Execute(_ context.Context, query string) (string, error) {
	return Lookup(query), nil
}
