package emailsend

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"research-crew/internal/common/config"
	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/common/metrics"
)

// Mailer sends a report file as an attachment. Every precondition is checked
// before a connection is opened.
type Mailer struct {
	config    *Config
	transport Transport
	logger    logger.Logger
	boundary  string
	now       func() time.Time
}

// NewMailer builds a Mailer. A nil transport means SMTP built from cfg at send
// time; SES needs an explicit transport.
func NewMailer(cfg *Config, transport Transport, log logger.Logger) *Mailer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Mailer{
		config:    cfg,
		transport: transport,
		logger:    log,
		now:       time.Now,
	}
}

func (m *Mailer) transportName() string {
	if m.transport != nil {
		return m.transport.Name()
	}
	return strings.ToUpper(m.config.Transport)
}

func (m *Mailer) missingSettings() []string {
	var missing []string
	if m.config.SenderAddress == "" {
		missing = append(missing, "sender_address")
	}
	if m.config.Transport == config.MailTransportSES {
		if m.transport == nil {
			missing = append(missing, "ses client")
		}
		return missing
	}
	if m.config.SenderPassword == "" {
		missing = append(missing, "sender_password")
	}
	if m.config.SMTPServer == "" {
		missing = append(missing, "smtp_server")
	}
	if m.config.SMTPPort == "" {
		missing = append(missing, "smtp_port")
	}
	return missing
}

// Send delivers msg. Checks run in order: settings complete, recipient has an
// "@", attachment exists, port is numeric.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	err := m.send(ctx, msg)
	status := "sent"
	if err != nil {
		status = "failed"
	}
	metrics.MailSends.WithLabelValues(m.transportName(), status).Inc()
	return err
}

func (m *Mailer) send(ctx context.Context, msg Message) error {
	if missing := m.missingSettings(); len(missing) > 0 {
		return errors.NewMailNotConfiguredError(missing)
	}
	if !strings.Contains(msg.Recipient, "@") {
		return errors.NewMailInvalidRecipientError(msg.Recipient)
	}
	if _, err := os.Stat(msg.AttachmentPath); err != nil {
		return errors.NewMailAttachmentMissingError(msg.AttachmentPath)
	}

	transport := m.transport
	if transport == nil {
		port, err := strconv.Atoi(strings.TrimSpace(m.config.SMTPPort))
		if err != nil {
			return errors.NewMailInvalidPortError(m.config.SMTPPort)
		}
		transport = newSMTPTransport(m.config.SMTPServer, port,
			m.config.SenderAddress, m.config.SenderPassword, m.config.SendTimeout)
	}

	attachment, err := os.ReadFile(msg.AttachmentPath)
	if err != nil {
		return errors.NewMailAttachmentMissingError(msg.AttachmentPath)
	}
	raw, err := buildMessage(m.config.SenderAddress, msg.Recipient, msg.Subject, msg.Body,
		msg.AttachmentPath, attachment, m.boundary)
	if err != nil {
		return errors.NewMailSendFailedError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.SendTimeout)
	defer cancel()

	m.logger.Info("Sending report email", map[string]interface{}{
		"recipient":  msg.Recipient,
		"attachment": msg.AttachmentPath,
		"transport":  transport.Name(),
	})
	return transport.Send(ctx, m.config.SenderAddress, []string{msg.Recipient}, raw)
}

// SendReport mails a written report and reports success as a boolean. Failures
// are logged, never returned.
func (m *Mailer) SendReport(ctx context.Context, recipient, target, timestamp, path string) bool {
	err := m.Send(ctx, Message{
		Recipient:      recipient,
		Subject:        ReportSubject(target),
		Body:           ReportBody(target, timestamp),
		AttachmentPath: path,
	})
	if err != nil {
		fields := map[string]interface{}{
			"recipient": recipient,
			"path":      path,
			"error":     err.Error(),
		}
		if stdErr, ok := errors.AsStandardError(err); ok {
			fields["errorCode"] = string(stdErr.Code)
			fields["details"] = stdErr.Details
		}
		m.logger.Error("Failed to send report email", fields)
		return false
	}
	m.logger.Info("Report email sent", map[string]interface{}{
		"recipient": recipient,
		"path":      path,
	})
	return true
}

// Execute runs a job input through the mailer.
func (m *Mailer) Execute(ctx context.Context, input *Input) (*Output, error) {
	err := m.Send(ctx, Message{
		Recipient:      input.Recipient,
		Subject:        ReportSubject(input.Target),
		Body:           ReportBody(input.Target, input.ReportTimestamp),
		AttachmentPath: input.ReportPath,
	})
	if err != nil {
		return nil, err
	}
	return &Output{
		Sent:     true,
		Message:  "Report emailed to " + input.Recipient,
		Provider: m.transportName(),
		SentAt:   m.now().UTC(),
	}, nil
}
