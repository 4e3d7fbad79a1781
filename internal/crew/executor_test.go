package crew

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"research-crew/internal/common/config"
	commonerrors "research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/models"
	"research-crew/internal/tools"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var acme = models.AnalysisRequest{
	TargetName:       "Acme Co",
	Industry:         "retail",
	KeyDecisionMaker: "J. Doe",
	Position:         "CEO",
	Milestone:        "IPO",
}

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestExecutor(t *testing.T, set *tools.Set, policy string, opts ...Option) *Executor {
	t.Helper()
	p, err := BuildPipeline(DefaultDefinition(set))
	require.NoError(t, err)

	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "run-1" }),
	}, opts...)
	e, err := NewExecutor(p, policy, logger.NewTestLogger(t), opts...)
	require.NoError(t, err)
	return e
}

func TestExecutor_Run_EndToEnd(t *testing.T) {
	set, stubs := stubSet(t)
	e := newTestExecutor(t, set, config.ErrorPolicyEmbed)

	run, err := e.Run(context.Background(), acme)
	require.NoError(t, err)

	require.Len(t, run.Results, 5)
	assert.Equal(t, "run-1", run.ID)

	roles := map[string]bool{}
	for i, res := range run.Results {
		assert.Equal(t, i+1, res.StageIndex)
		assert.False(t, res.Failed)
		roles[res.RoleName] = true
	}
	assert.Len(t, roles, 4)
	assert.Len(t, e.Pipeline().Roster(), 4)

	assert.Equal(t, "web-search output"+
		"\n\n[Knowledge Base Tool]\nknowledge-base output"+
		"\n\n[Knowledge Base Tool]\nknowledge-base output", run.Results[0].Output)
	assert.Equal(t, "communication-optimization output"+
		"\n\n[Sentiment Analysis Tool]\nsentiment-analysis output"+
		"\n\n[Knowledge Base Tool]\nknowledge-base output", run.Results[3].Output)
	assert.Equal(t, "strategic-planning output\n\n[Knowledge Base Tool]\nknowledge-base output", run.Results[4].Output)

	// shaped inputs
	assert.Equal(t, []string{"retail"}, stubs[tools.IDMarketAnalysis].Inputs())
	assert.Equal(t, []string{run.Results[2].Text()}, stubs[tools.IDSentimentAnalysis].Inputs())
	assert.Equal(t, []string{
		"stakeholder mapping", "retail",
		"retail", "competitive analysis",
		"value proposition", "objection handling",
		"stakeholder messaging",
		"swot analysis",
	}, stubs[tools.IDKnowledgeBase].Inputs())

	research := stubs[tools.IDWebSearch].Inputs()
	require.Len(t, research, 1)
	assert.Equal(t, "Comprehensive research on Acme Co (retail). Focus on market position, "+
		"recent developments (especially around 'IPO'), key people like J. Doe (CEO), "+
		"structure, needs, challenges, opportunities. Use knowledge base for industry context and research frameworks.", research[0])

	strategyInputs := stubs[tools.IDStrategicPlanning].Inputs()
	require.Len(t, strategyInputs, 2)
	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strategyInputs[0]), &first))
	assert.Equal(t, "retail", first["organization_type"])
	assert.Equal(t, []interface{}{"growth", "innovation", "customer_retention", "efficiency"}, first["objectives"])
	assert.Equal(t, "Acme Co, potentially engaging with J. Doe", first["target_info"])

	var comm map[string]string
	require.NoError(t, json.Unmarshal([]byte(stubs[tools.IDCommunicationOptimization].Inputs()[0]), &comm))
	assert.Equal(t, "J. Doe (CEO) at Acme Co", comm["audience"])
	assert.Equal(t, "Initiate engagement and secure a brief discovery meeting", comm["objective"])
}

func TestExecutor_Run_Deterministic(t *testing.T) {
	set, _ := stubSet(t)

	first, err := newTestExecutor(t, set, "").Run(context.Background(), acme)
	require.NoError(t, err)
	second, err := newTestExecutor(t, set, "").Run(context.Background(), acme)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Results, second.Results); diff != "" {
		t.Errorf("results differ between runs (-first +second):\n%s", diff)
	}
}

func TestExecutor_Run_EmbedPolicy(t *testing.T) {
	set, _ := stubSet(t, tools.IDMarketAnalysis)
	e := newTestExecutor(t, set, config.ErrorPolicyEmbed)

	run, err := e.Run(context.Background(), acme)
	require.NoError(t, err)
	require.Len(t, run.Results, 5)

	market := run.Results[1]
	assert.True(t, market.Failed)
	assert.True(t, strings.HasPrefix(market.Text(),
		"Error executing tool 'Market Analysis Tool' with input starting: 'retail...'\nError: market-analysis unavailable"))
	assert.Contains(t, market.Text(), "[Knowledge Base Tool]")
}

func TestExecutor_Run_AbortPolicy(t *testing.T) {
	set, stubs := stubSet(t, tools.IDMarketAnalysis)
	e := newTestExecutor(t, set, config.ErrorPolicyAbort)

	run, err := e.Run(context.Background(), acme)
	require.Error(t, err)

	se, ok := commonerrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeStageFailed, se.Code)
	assert.Equal(t, StageMarketAnalysis, se.Metadata["stage"])

	require.NotNil(t, run)
	assert.Len(t, run.Results, 1)
	assert.Empty(t, stubs[tools.IDStrategicPlanning].Inputs())
}

func TestExecutor_Run_InvalidRequest(t *testing.T) {
	set, stubs := stubSet(t)
	e := newTestExecutor(t, set, "")

	run, err := e.Run(context.Background(), models.AnalysisRequest{TargetName: "Acme Co"})
	require.Error(t, err)
	assert.Nil(t, run)

	se, ok := commonerrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeRequestInvalid, se.Code)
	assert.Contains(t, se.Details, "industry")
	assert.Empty(t, stubs[tools.IDWebSearch].Inputs())
}

func TestExecutor_Run_Cancelled(t *testing.T) {
	set, _ := stubSet(t)
	e := newTestExecutor(t, set, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := e.Run(ctx, acme)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, run.Results)
}

type recordedRun struct {
	industry, status string
}

type fakeRecorder struct {
	runs []recordedRun
}

func (f *fakeRecorder) RecordRun(_ context.Context, industry, status string, _ time.Duration) {
	f.runs = append(f.runs, recordedRun{industry, status})
}

func TestExecutor_Run_RecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{}

	set, _ := stubSet(t)
	_, err := newTestExecutor(t, set, "", WithRecorder(rec)).Run(context.Background(), acme)
	require.NoError(t, err)

	failing, _ := stubSet(t, tools.IDWebSearch)
	_, err = newTestExecutor(t, failing, config.ErrorPolicyAbort, WithRecorder(rec)).Run(context.Background(), acme)
	require.Error(t, err)

	assert.Equal(t, []recordedRun{{"retail", "completed"}, {"retail", "aborted"}}, rec.runs)
}

func TestExecutor_RunStageByName(t *testing.T) {
	set, _ := stubSet(t)
	e := newTestExecutor(t, set, "")

	pc := NewPipelineContext(acme).
		With(models.StageResult{StageName: StageStrategyDevelopment, Output: "strategy text"})

	res, err := e.RunStageByName(context.Background(), StageCommunicationDevelopment, pc)
	require.NoError(t, err)
	assert.Equal(t, 4, res.StageIndex)
	assert.Equal(t, RoleCommunication, res.RoleName)

	_, err = e.RunStageByName(context.Background(), "unknown", pc)
	assert.Error(t, err)
}

func TestExecutor_RunStage_UnknownTool(t *testing.T) {
	set, stubs := stubSet(t)
	e := newTestExecutor(t, set, "")

	tests := []struct {
		name  string
		stage Stage
	}{
		{
			name:  "primary",
			stage: Stage{Index: 1, Name: "adhoc", Role: RoleResearchCoordinator, PrimaryTool: "no-such-tool", Shape: fixed("x")},
		},
		{
			name: "consultation",
			stage: Stage{Index: 1, Name: "adhoc", Role: RoleResearchCoordinator, PrimaryTool: tools.IDWebSearch, Shape: fixed("x"),
				Consultations: []Consultation{{Tool: "no-such-tool", Shape: fixed("y")}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.RunStage(context.Background(), tt.stage, NewPipelineContext(acme))
			require.Error(t, err)

			se, ok := commonerrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, commonerrors.ErrCodePipelineInvalid, se.Code)
		})
	}
	assert.Empty(t, stubs[tools.IDWebSearch].Inputs())
}

func TestNewExecutor_UnknownPolicy(t *testing.T) {
	set, _ := stubSet(t)
	p, err := BuildPipeline(DefaultDefinition(set))
	require.NoError(t, err)

	_, err = NewExecutor(p, "ignore", logger.NewNoOpLogger())
	assert.Error(t, err)
}
