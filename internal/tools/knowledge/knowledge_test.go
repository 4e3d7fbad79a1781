package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_TopicMatch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantTitle string
		wantText  string
	}{
		{"spaced topic", "swot analysis", "Strategic Models - Swot Analysis", "SWOT Analysis Framework:"},
		{"underscored topic", "swot_analysis", "Strategic Models - Swot Analysis", "SWOT Analysis Framework:"},
		{"mixed case with padding", "  Stakeholder Mapping ", "Research Frameworks - Stakeholder Mapping", "Framework for stakeholder mapping:"},
		{"industry", "retail", "Industry Insights - Retail", "Retail is adapting"},
		{"sentence", "details about objection handling", "Communication Guidelines - Objection Handling", "LAARC/LAER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Lookup(tt.query)
			assert.True(t, strings.HasPrefix(out, "Knowledge Base Result: **"+tt.wantTitle+"**\n\n"), out)
			assert.Contains(t, out, tt.wantText)
		})
	}
}

func TestLookup_MultiWordIndustry(t *testing.T) {
	out := Lookup("Fast-moving consumer goods")
	assert.True(t, strings.HasPrefix(out, "Knowledge Base Result: **Industry Insights - "))
	assert.Contains(t, out, "FMCG sector focuses on brand building")
}

func TestLookup_CategoryMatch(t *testing.T) {
	out := Lookup("strategic models")

	assert.Equal(t, "Found category match: **Strategic Models**. Available specific topics in this category:\n"+
		"Swot Analysis, Value Proposition\n\n"+
		"Please refine your query for a specific topic (e.g., 'Tell me about SWOT Analysis').", out)
}

func TestLookup_Fallback(t *testing.T) {
	out := Lookup("xyzzy nonsense")

	assert.Equal(t, "No specific knowledge base entry found matching 'xyzzy nonsense'.\n"+
		"Available top-level categories: Research Frameworks, Strategic Models, Communication Guidelines, Industry Insights.\n"+
		"Try queries like 'information on competitive analysis', 'details about objection handling', or 'insights for the retail industry'.", out)
}

func TestBest_TiesKeepFirstEntry(t *testing.T) {
	m, ok := Best("analysis")
	require.True(t, ok)

	assert.Equal(t, "competitive_analysis", m.Topic)
	assert.Equal(t, 1.0, m.Score)
}

func TestBest_NoMatch(t *testing.T) {
	_, ok := Best("zz")
	assert.False(t, ok)
}

func TestTool_Execute(t *testing.T) {
	out, err := New().Execute(context.Background(), "value proposition")
	require.NoError(t, err)
	assert.Contains(t, out, "Value Proposition Canvas Components:")
}

func TestCategories_Order(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "research_frameworks", cats[0].Name)
	assert.Equal(t, "industry_insights", cats[3].Name)
	assert.Len(t, cats[3].Entries, 5)
}
