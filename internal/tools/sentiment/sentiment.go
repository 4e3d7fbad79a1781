// Package sentiment implements a keyword-count sentiment scorer.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"research-crew/internal/tools"
)

const (
	name        = "Sentiment Analysis Tool"
	description = "Analyzes sentiment (positive, negative, neutral) in text data like communications, social media posts, or news articles."
)

var (
	positiveWords = []string{"growth", "innovation", "success", "exceeded", "strong", "opportunity", "achieve", "positive", "benefit", "value"}
	negativeWords = []string{"decline", "struggle", "loss", "failure", "problem", "decrease", "challenge", "concern", "risk", "issue", "negative", "obstacle"}
)

// Labels.
const (
	Positive = "Positive"
	Negative = "Negative"
	Neutral  = "Neutral or Mixed"
)

// Score holds the keyword tallies for one text.
type Score struct {
	Positive int
	Negative int
}

// Value is positive minus negative.
func (s Score) Value() int {
	return s.Positive - s.Negative
}

// Label maps the score onto a sentiment label: above 1 is Positive, below -1 Negative.
func (s Score) Label() string {
	switch v := s.Value(); {
	case v > 1:
		return Positive
	case v < -1:
		return Negative
	default:
		return Neutral
	}
}

// Analyze counts each keyword once if it occurs anywhere in the lower-cased text.
func Analyze(text string) Score {
	lower := strings.ToLower(text)
	return Score{
		Positive: countPresent(lower, positiveWords),
		Negative: countPresent(lower, negativeWords),
	}
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

type Tool struct{}

func New() *Tool {
	return &Tool{}
}

func (t *Tool) ID() string          { return tools.IDSentimentAnalysis }
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

func (t *Tool) Execute(_ context.Context, text string) (string, error) {
	score := Analyze(text)
	label := score.Label()

	var indicators string
	switch label {
	case Positive:
		indicators = "keywords like growth, success, opportunity."
	case Negative:
		indicators = "keywords like challenge, risk, decline."
	default:
		indicators = "a balance of positive/negative terms or lack of strong sentiment keywords."
	}

	return fmt.Sprintf("Sentiment Analysis Result:\n\n"+
		"Detected Sentiment: **%s** (Score: %d)\n"+
		"Basis: Analysis detected %s\n"+
		"Note: This is a basic analysis. Context is crucial for accurate interpretation.",
		label, score.Value(), indicators), nil
}
