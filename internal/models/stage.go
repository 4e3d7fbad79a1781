// internal/models/stage.go
package models

import (
	"fmt"
	"time"
)

// StageResult is produced once per stage and never mutated.
type StageResult struct {
	StageIndex  int       `json:"stageIndex"`
	StageName   string    `json:"stageName"`
	RoleName    string    `json:"roleName"`
	Description string    `json:"description"`
	Output      any       `json:"output"`
	Failed      bool      `json:"failed,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	Duration    int64     `json:"durationMs"`
}

// Text returns the output when it is text, or its printed form otherwise.
func (s StageResult) Text() string {
	if str, ok := s.Output.(string); ok {
		return str
	}
	if s.Output == nil {
		return ""
	}
	return fmt.Sprint(s.Output)
}
