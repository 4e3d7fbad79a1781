// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"research-crew/internal/common/errors"
	"research-crew/internal/crew"
	emailsend "research-crew/internal/workers/communication/email-send"
	reportnotify "research-crew/internal/workers/communication/report-notify"
	renderreport "research-crew/internal/workers/pipeline/render-report"
	runstage "research-crew/internal/workers/pipeline/run-stage"
)

const (
	CategoryStage    = "pipeline-stage"
	CategoryReport   = "report"
	CategoryDelivery = "delivery"
)

// Build describes p and the delivery workers as a manifest.
func Build(p *crew.Pipeline, version string, now time.Time) *ToolRegistry {
	reg := &ToolRegistry{
		Version:     version,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Tools:       p.Tools().Metadata(),
	}

	for _, r := range p.Roles().Roles() {
		reg.Roles = append(reg.Roles, Role{
			Name:            r.Name,
			Goal:            r.Goal,
			AllowDelegation: r.AllowDelegation,
			Tools:           append([]string(nil), r.Tools...),
		})
	}

	for _, s := range p.Stages() {
		used := []string{s.PrimaryTool}
		for _, c := range s.Consultations {
			if !contains(used, c.Tool) {
				used = append(used, c.Tool)
			}
		}
		reg.Activities = append(reg.Activities, Activity{
			ID:          s.Name,
			DisplayName: fmt.Sprintf("Task %d: %s", s.Index, s.Name),
			Category:    CategoryStage,
			TaskType:    runstage.TaskTypeFor(s.Name),
			Role:        s.Role,
			Upstream:    append([]string(nil), s.Upstream...),
			Tools:       used,
			ErrorCodes: []string{
				string(errors.ErrCodeRequestInvalid),
				string(errors.ErrCodeStageFailed),
			},
		})
	}

	reg.Activities = append(reg.Activities,
		Activity{
			ID:          "render-report",
			DisplayName: "Render and write report",
			Category:    CategoryReport,
			TaskType:    renderreport.TaskType,
			ErrorCodes: []string{
				string(errors.ErrCodeRequestInvalid),
				string(errors.ErrCodeReportWriteFailed),
			},
		},
		Activity{
			ID:          "email-send",
			DisplayName: "Email report",
			Category:    CategoryDelivery,
			TaskType:    emailsend.TaskType,
			ErrorCodes: []string{
				"VALIDATION_FAILED",
				string(errors.ErrCodeMailSendFailed),
			},
		},
		Activity{
			ID:          "report-notify",
			DisplayName: "Publish report-ready notification",
			Category:    CategoryDelivery,
			TaskType:    reportnotify.TaskType,
			ErrorCodes: []string{
				string(errors.ErrCodeRequestInvalid),
				string(errors.ErrCodeNotifyFailed),
			},
		},
	)
	return reg
}

// Validate checks that IDs are unique, scores are in [0,1] and every tool a
// role or activity names is listed.
func Validate(reg *ToolRegistry) error {
	if reg.Version == "" {
		return fmt.Errorf("registry version is required")
	}

	known := make(map[string]bool, len(reg.Tools))
	for _, t := range reg.Tools {
		if t.ID == "" {
			return fmt.Errorf("tool with empty id")
		}
		if known[t.ID] {
			return fmt.Errorf("duplicate tool id %q", t.ID)
		}
		if t.ReliabilityScore < 0 || t.ReliabilityScore > 1 {
			return fmt.Errorf("tool %q: reliability score %.2f out of range", t.ID, t.ReliabilityScore)
		}
		known[t.ID] = true
	}

	for _, r := range reg.Roles {
		for _, id := range r.Tools {
			if !known[id] {
				return fmt.Errorf("role %q references unknown tool %q", r.Name, id)
			}
		}
	}

	taskTypes := make(map[string]bool, len(reg.Activities))
	for _, a := range reg.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %q has no task type", a.ID)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type %q", a.TaskType)
		}
		taskTypes[a.TaskType] = true
		for _, id := range a.Tools {
			if !known[id] {
				return fmt.Errorf("activity %q references unknown tool %q", a.ID, id)
			}
		}
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func LoadRegistry(path string) (*ToolRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ToolRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Save writes reg as indented JSON, creating parent directories.
func Save(reg *ToolRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create registry directory: %w", err)
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
