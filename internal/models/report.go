// internal/models/report.go
package models

import "time"

// TimestampLayout is the label format used in report headers and file names.
const TimestampLayout = "2006-01-02_15-04-05"

// Report is the rendered outcome of one run, written once.
type Report struct {
	RunID       string        `json:"runId"`
	Target      string        `json:"target"`
	Industry    string        `json:"industry"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Timestamp   string        `json:"timestamp"`
	Stages      []StageResult `json:"stages,omitempty"`
	Roles       []string      `json:"roles"`
	Content     string        `json:"content"`
	FilePath    string        `json:"filePath,omitempty"`
}

// ReportSummary is the archived/indexed view of a report.
type ReportSummary struct {
	RunID       string    `json:"runId"`
	Target      string    `json:"target"`
	Industry    string    `json:"industry"`
	GeneratedAt time.Time `json:"generatedAt"`
	FilePath    string    `json:"filePath"`
	Excerpt     string    `json:"excerpt,omitempty"`
}

// ReportReadyEvent is published when a report file has been written.
type ReportReadyEvent struct {
	RunID       string `json:"runId"`
	Target      string `json:"target"`
	Industry    string `json:"industry"`
	FilePath    string `json:"filePath"`
	GeneratedAt string `json:"generatedAt"`
}
