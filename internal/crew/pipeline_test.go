package crew

import (
	"strings"
	"testing"

	commonerrors "research-crew/internal/common/errors"
	"research-crew/internal/models"
	"research-crew/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPipeline_Default(t *testing.T) {
	set, _ := stubSet(t)

	p, err := BuildPipeline(DefaultDefinition(set))
	require.NoError(t, err)

	require.Equal(t, 5, p.Len())
	var names []string
	for i, s := range p.Stages() {
		assert.Equal(t, i+1, s.Index)
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		StageTargetResearch,
		StageMarketAnalysis,
		StageStrategyDevelopment,
		StageCommunicationDevelopment,
		StageReflection,
	}, names)
	assert.Len(t, p.Roster(), 4)
}

func TestBuildPipeline_Invalid(t *testing.T) {
	stage := func(name, role, tool string, upstream ...string) Stage {
		return Stage{
			Name:        name,
			Role:        role,
			PrimaryTool: tool,
			Upstream:    upstream,
			Shape:       fixed("x"),
		}
	}

	tests := []struct {
		name    string
		stages  []Stage
		wantMsg string
	}{
		{
			name:    "no stages",
			wantMsg: "at least one stage",
		},
		{
			name: "upstream declared later",
			stages: []Stage{
				stage("first", RoleMarketResearch, tools.IDMarketAnalysis, "second"),
				stage("second", RoleMarketResearch, tools.IDMarketAnalysis),
			},
			wantMsg: `upstream "second"`,
		},
		{
			name: "self upstream",
			stages: []Stage{
				stage("only", RoleMarketResearch, tools.IDMarketAnalysis, "only"),
			},
			wantMsg: `upstream "only"`,
		},
		{
			name: "tool outside capability set",
			stages: []Stage{
				stage("s", RoleResearchCoordinator, tools.IDStrategicPlanning),
			},
			wantMsg: "capability set",
		},
		{
			name: "consultation outside capability set",
			stages: []Stage{{
				Name:          "s",
				Role:          RoleResearchCoordinator,
				PrimaryTool:   tools.IDWebSearch,
				Shape:         fixed("x"),
				Consultations: []Consultation{{Tool: tools.IDSentimentAnalysis, Shape: fixed("y")}},
			}},
			wantMsg: "capability set",
		},
		{
			name: "unknown role",
			stages: []Stage{
				stage("s", "Chief Vibes Officer", tools.IDWebSearch),
			},
			wantMsg: "unknown role",
		},
		{
			name: "duplicate stage",
			stages: []Stage{
				stage("s", RoleMarketResearch, tools.IDMarketAnalysis),
				stage("s", RoleMarketResearch, tools.IDMarketAnalysis),
			},
			wantMsg: "duplicate stage",
		},
		{
			name: "missing shaper",
			stages: []Stage{{
				Name:        "s",
				Role:        RoleMarketResearch,
				PrimaryTool: tools.IDMarketAnalysis,
			}},
			wantMsg: "no input shaper",
		},
	}

	set, _ := stubSet(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPipeline(Definition{Stages: tt.stages, Roles: DefaultRegistry(), Tools: set})
			require.Error(t, err)

			se, ok := commonerrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, commonerrors.ErrCodePipelineInvalid, se.Code)
			assert.Contains(t, se.Details, tt.wantMsg)
		})
	}
}

func TestBuildPipeline_UnregisteredTool(t *testing.T) {
	set, err := tools.NewSet(&stubTool{id: tools.IDMarketAnalysis, name: "Market Analysis Tool"})
	require.NoError(t, err)

	_, err = BuildPipeline(DefaultDefinition(set))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PIPELINE_INVALID")
}

func TestStage_Describe(t *testing.T) {
	stage := DefaultStages()[0]
	req := models.AnalysisRequest{
		TargetName:       "Acme Co",
		Industry:         "retail",
		KeyDecisionMaker: "J. Doe",
		Position:         "CEO",
		Milestone:        "IPO",
	}

	desc := stage.Describe(req)
	firstLine := strings.Split(desc, "\n")[0]

	assert.Equal(t, "Conduct comprehensive research on the target organization: **Acme Co**, operating in the **retail** sector. Focus on: ", firstLine)
	assert.Contains(t, desc, "related to 'IPO'")
	assert.Contains(t, desc, "**J. Doe** in position **CEO**")
	assert.True(t, strings.HasPrefix(stage.Expect(req), "A detailed intelligence report summarizing findings on Acme Co, including:"))
}
