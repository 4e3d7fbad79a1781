package renderreport

import "research-crew/internal/models"

type Input struct {
	RunID        string                 `json:"runId,omitempty"`
	Request      models.AnalysisRequest `json:"request"`
	StageOutputs map[string]interface{} `json:"stageOutputs"`
}

type Output struct {
	RunID           string `json:"runId"`
	ReportPath      string `json:"reportPath"`
	ReportTimestamp string `json:"reportTimestamp"`
	Target          string `json:"target"`
	Industry        string `json:"industry"`
	GeneratedAt     string `json:"generatedAt"`
	StageCount      int    `json:"stageCount"`
	Archived        bool   `json:"reportArchived"`
	Indexed         bool   `json:"reportIndexed"`
	Notified        bool   `json:"reportNotified"`
}
