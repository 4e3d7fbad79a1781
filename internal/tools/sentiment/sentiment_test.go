package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantScore int
		wantLabel string
	}{
		{
			name:      "two positives",
			text:      "Strong growth this quarter",
			wantScore: 2,
			wantLabel: Positive,
		},
		{
			name:      "two negatives",
			text:      "A decline and a loss",
			wantScore: -2,
			wantLabel: Negative,
		},
		{
			name:      "single negative stays neutral",
			text:      "one small risk",
			wantScore: -1,
			wantLabel: Neutral,
		},
		{
			name:      "single positive stays neutral",
			text:      "real value",
			wantScore: 1,
			wantLabel: Neutral,
		},
		{
			name:      "no keywords",
			text:      "the quarterly meeting happened",
			wantScore: 0,
			wantLabel: Neutral,
		},
		{
			name:      "repeated keyword counts once",
			text:      "growth growth growth",
			wantScore: 1,
			wantLabel: Neutral,
		},
		{
			name:      "substring match and case folding",
			text:      "INNOVATIONS drove SUCCESSFUL results",
			wantScore: 2,
			wantLabel: Positive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Analyze(tt.text)
			assert.Equal(t, tt.wantScore, score.Value())
			assert.Equal(t, tt.wantLabel, score.Label())
		})
	}
}

func TestTool_Execute(t *testing.T) {
	out, err := New().Execute(context.Background(), "Strong growth despite one risk and an opportunity")
	require.NoError(t, err)

	assert.Contains(t, out, "Detected Sentiment: **Positive** (Score: 2)")
	assert.Contains(t, out, "Basis: Analysis detected keywords like growth, success, opportunity.")

	out, err = New().Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Detected Sentiment: **Neutral or Mixed** (Score: 0)")
}
