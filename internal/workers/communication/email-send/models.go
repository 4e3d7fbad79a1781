package emailsend

import (
	"time"
)

// Message is one mail with a single file attachment.
type Message struct {
	Recipient      string
	Subject        string
	Body           string
	AttachmentPath string
}

type Input struct {
	Recipient       string `json:"recipient"`
	ReportPath      string `json:"reportPath"`
	Target          string `json:"target,omitempty"`
	ReportTimestamp string `json:"reportTimestamp,omitempty"`
}

type Output struct {
	Sent     bool      `json:"emailSent"`
	Message  string    `json:"emailMessage"`
	Provider string    `json:"emailProvider,omitempty"`
	SentAt   time.Time `json:"emailSentAt,omitempty"`
}
