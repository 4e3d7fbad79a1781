package reportnotify

type Input struct {
	RunID       string `json:"runId"`
	Target      string `json:"target"`
	Industry    string `json:"industry,omitempty"`
	ReportPath  string `json:"reportPath"`
	GeneratedAt string `json:"generatedAt,omitempty"`
}

type Output struct {
	Notified  bool   `json:"reportNotified"`
	MessageID string `json:"notificationMessageId,omitempty"`
	Status    string `json:"notificationStatus"`
}

// Statuses
const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

// EventType is the message attribute every report event carries.
const EventType = "report.ready"
