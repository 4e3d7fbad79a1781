// Package errors provides standardized error handling for the research pipeline
// and its BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRequestInvalid ErrorCode = "REQUEST_INVALID"

	ErrCodeToolInputInvalid    ErrorCode = "TOOL_INPUT_INVALID"
	ErrCodeToolExecutionFailed ErrorCode = "TOOL_EXECUTION_FAILED"
	ErrCodeToolNotFound        ErrorCode = "TOOL_NOT_FOUND"

	ErrCodeSearchFailed        ErrorCode = "SEARCH_FAILED"
	ErrCodeSearchTimeout       ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeSearchNotConfigured ErrorCode = "SEARCH_NOT_CONFIGURED"

	ErrCodePipelineInvalid ErrorCode = "PIPELINE_INVALID"
	ErrCodeStageFailed     ErrorCode = "STAGE_FAILED"

	ErrCodeReportWriteFailed ErrorCode = "REPORT_WRITE_FAILED"

	ErrCodeMailNotConfigured     ErrorCode = "MAIL_NOT_CONFIGURED"
	ErrCodeMailInvalidRecipient  ErrorCode = "MAIL_INVALID_RECIPIENT"
	ErrCodeMailAttachmentMissing ErrorCode = "MAIL_ATTACHMENT_MISSING"
	ErrCodeMailAuthFailed        ErrorCode = "MAIL_AUTH_FAILED"
	ErrCodeMailSendFailed        ErrorCode = "MAIL_SEND_FAILED"

	ErrCodeArchiveFailed ErrorCode = "ARCHIVE_FAILED"
	ErrCodeIndexFailed   ErrorCode = "INDEX_FAILED"
	ErrCodeNotifyFailed  ErrorCode = "NOTIFY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestInvalidError reports a missing or malformed analysis request field.
func NewRequestInvalidError(details string) *StandardError {
	return newError(ErrCodeRequestInvalid, "Analysis request is invalid", details, false)
}

// NewPipelineInvalidError reports a stage definition that breaks ordering or capabilities.
func NewPipelineInvalidError(details string) *StandardError {
	return newError(ErrCodePipelineInvalid, "Pipeline definition is invalid", details, false)
}

// NewStageFailedError wraps a tool failure that aborted a stage.
func NewStageFailedError(stage string, err error) *StandardError {
	e := newError(ErrCodeStageFailed, fmt.Sprintf("Stage '%s' failed", stage), err.Error(), false)
	e.Metadata = map[string]interface{}{"stage": stage}
	return e
}

func NewSearchFailedError(query string, err error) *StandardError {
	e := newError(ErrCodeSearchFailed, "Web search request failed", err.Error(), true)
	e.Metadata = map[string]interface{}{"query": query}
	return e
}

func NewSearchTimeoutError(query string) *StandardError {
	e := newError(ErrCodeSearchTimeout, "Web search timed out", fmt.Sprintf("query: %s", query), true)
	e.Metadata = map[string]interface{}{"query": query}
	return e
}

func NewSearchNotConfiguredError() *StandardError {
	return newError(ErrCodeSearchNotConfigured, "Web search is not configured", "api key or engine id missing", false)
}

func NewReportWriteFailedError(path string, err error) *StandardError {
	return newError(ErrCodeReportWriteFailed, "Report file could not be written",
		fmt.Sprintf("path: %s, error: %s", path, err.Error()), false)
}

func NewMailNotConfiguredError(missing []string) *StandardError {
	return newError(ErrCodeMailNotConfigured, "Email configuration is incomplete",
		fmt.Sprintf("missing: %s", strings.Join(missing, ", ")), false)
}

func NewMailInvalidPortError(port string) *StandardError {
	return newError(ErrCodeMailNotConfigured, "SMTP port is not a number",
		fmt.Sprintf("smtp_port: %q", port), false)
}

func NewMailInvalidRecipientError(recipient string) *StandardError {
	return newError(ErrCodeMailInvalidRecipient, "Invalid recipient email address",
		fmt.Sprintf("recipient: %s", recipient), false)
}

func NewMailAttachmentMissingError(path string) *StandardError {
	return newError(ErrCodeMailAttachmentMissing, "Report file to attach was not found",
		fmt.Sprintf("path: %s", path), false)
}

func NewMailAuthFailedError(err error) *StandardError {
	return newError(ErrCodeMailAuthFailed, "SMTP authentication failed", err.Error(), false)
}

func NewMailSendFailedError(err error) *StandardError {
	return newError(ErrCodeMailSendFailed, "Failed to send email", err.Error(), true)
}

func NewArchiveFailedError(err error) *StandardError {
	return newError(ErrCodeArchiveFailed, "Report archive operation failed", err.Error(), true)
}

func NewIndexFailedError(err error) *StandardError {
	return newError(ErrCodeIndexFailed, "Report index operation failed", err.Error(), true)
}

func NewNotifyFailedError(err error) *StandardError {
	return newError(ErrCodeNotifyFailed, "Report notification failed", err.Error(), true)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a job failing with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSearchFailed,
		ErrCodeMailSendFailed,
		ErrCodeArchiveFailed,
		ErrCodeIndexFailed,
		ErrCodeNotifyFailed:
		return 3

	case ErrCodeSearchTimeout:
		return 2

	default:
		return 0 // business errors are thrown as BPMN errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "TOOL_"):
		return "TOOL"
	case strings.HasPrefix(codeStr, "SEARCH_"):
		return "SEARCH"
	case strings.HasPrefix(codeStr, "MAIL_"):
		return "MAIL"
	case strings.Contains(codeStr, "STAGE") || strings.Contains(codeStr, "PIPELINE"):
		return "PIPELINE"
	case strings.Contains(codeStr, "REPORT") || strings.Contains(codeStr, "ARCHIVE") || strings.Contains(codeStr, "INDEX"):
		return "REPORT"
	case strings.Contains(codeStr, "NOTIFY"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "INTERNAL"
	}
}

// AsStandardError finds the first *StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}
