// Package report renders pipeline results into the text report and
// persists, archives and indexes it.
package report

import (
	"fmt"
	"strings"

	"research-crew/internal/crew"
	"research-crew/internal/models"
)

var (
	headerRule = strings.Repeat("=", 70)
	taskRule   = strings.Repeat("-", 50)
)

// Render builds the report text. It is pure: the same arguments always
// produce the same document.
func Render(timestamp string, req models.AnalysisRequest, stages []crew.Stage, results []models.StageResult, roles []string) string {
	lines := []string{
		"# Strategic Analysis Report: " + req.TargetName,
		"## Industry: " + req.Industry,
		"Generated On: " + timestamp,
		headerRule + "\n",
	}

	if len(results) > 0 && len(results) == len(stages) {
		for i, res := range results {
			stage := stages[i]
			role := stage.Role
			if role == "" {
				role = "Unknown Agent"
			}

			lines = append(lines,
				fmt.Sprintf("### Task %d: %s", i+1, strings.Split(stage.Describe(req), "\n")[0]),
				fmt.Sprintf("*Executed by: %s*", role),
				taskRule,
				"**Output:**\n",
			)
			lines = append(lines, outputLines(res.Output)...)
			lines = append(lines, "\n"+headerRule+"\n")
		}
	} else {
		lines = append(lines,
			"!! Error: Mismatch between number of tasks and outputs, or no outputs generated.",
			fmt.Sprintf("  Tasks defined: %d", len(stages)),
			fmt.Sprintf("  Outputs received: %d", len(results)),
		)
	}

	lines = append(lines,
		"\n## Execution Metadata:",
		taskRule,
		"Agents Involved: "+strings.Join(roles, ", "),
		fmt.Sprintf("Total Tasks in Workflow: %d", len(stages)),
	)
	return strings.Join(lines, "\n")
}

func outputLines(output interface{}) []string {
	text, ok := output.(string)
	if !ok {
		return []string{
			fmt.Sprintf("  (Output was not a string: %T)", output),
			fmt.Sprintf("  %v", output),
		}
	}

	raw := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, len(raw))
	for i, line := range raw {
		out[i] = "  " + strings.TrimSpace(line)
	}
	return out
}
