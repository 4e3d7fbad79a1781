// internal/models/request.go
package models

import (
	"strings"

	"research-crew/internal/common/errors"
)

// AnalysisRequest is the immutable input of one pipeline run.
type AnalysisRequest struct {
	TargetName       string `json:"targetName"`
	Industry         string `json:"industry"`
	KeyDecisionMaker string `json:"keyDecisionMaker,omitempty"`
	Position         string `json:"position,omitempty"`
	Milestone        string `json:"milestone,omitempty"`
}

// Validate checks presence of the two mandatory fields.
func (r AnalysisRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.TargetName) == "" {
		missing = append(missing, "targetName")
	}
	if strings.TrimSpace(r.Industry) == "" {
		missing = append(missing, "industry")
	}
	if len(missing) > 0 {
		return errors.NewRequestInvalidError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// Field returns the named request field, or fallback when it is blank.
func (r AnalysisRequest) Field(name, fallback string) string {
	var v string
	switch name {
	case "target_name":
		v = r.TargetName
	case "industry":
		v = r.Industry
	case "key_decision_maker":
		v = r.KeyDecisionMaker
	case "position":
		v = r.Position
	case "milestone":
		v = r.Milestone
	}
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
