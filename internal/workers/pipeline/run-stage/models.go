package runstage

import "research-crew/internal/models"

type Input struct {
	Request      models.AnalysisRequest `json:"request"`
	StageOutputs map[string]interface{} `json:"stageOutputs"`
}

type Output struct {
	StageOutputs  map[string]interface{} `json:"stageOutputs"`
	LastStage     string                 `json:"lastStage"`
	StageDegraded bool                   `json:"stageDegraded"`
}
