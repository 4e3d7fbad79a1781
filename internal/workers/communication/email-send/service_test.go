package emailsend

import (
	"context"
	"encoding/base64"
	"net"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"research-crew/internal/common/config"
	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake SMTP server
// ==========================

type smtpServer struct {
	port       string
	rejectAuth bool

	mu    sync.Mutex
	auth  string
	from  string
	rcpts []string
	data  string

	done chan struct{}
}

func startSMTPServer(t *testing.T, rejectAuth bool) *smtpServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &smtpServer{rejectAuth: rejectAuth, done: make(chan struct{})}
	_, s.port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	go s.serve(ln)
	t.Cleanup(func() {
		ln.Close()
		<-s.done
	})
	return s
}

func (s *smtpServer) serve(ln net.Listener) {
	defer close(s.done)
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP test")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250 localhost")
		case strings.HasPrefix(cmd, "AUTH"):
			if s.rejectAuth {
				_ = tp.PrintfLine("535 5.7.8 Authentication credentials invalid")
				continue
			}
			s.mu.Lock()
			s.auth = line
			s.mu.Unlock()
			_ = tp.PrintfLine("235 2.7.0 Authentication successful")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			s.mu.Lock()
			s.from = line
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.0 Ok")
		case strings.HasPrefix(cmd, "RCPT TO"):
			s.mu.Lock()
			s.rcpts = append(s.rcpts, line)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.5 Ok")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = strings.Join(lines, "\n")
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 Ok: queued")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 2.0.0 Bye")
			return
		default:
			_ = tp.PrintfLine("502 5.5.2 Error: command not recognized")
		}
	}
}

func (s *smtpServer) received() (auth, from string, rcpts []string, data string) {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth, s.from, s.rcpts, s.data
}

// ==========================
// Helpers
// ==========================

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Acme_Co_2024-05-01_10-00-00.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func smtpConfig(port string) *Config {
	cfg := DefaultConfig()
	cfg.SenderAddress = "crew@example.com"
	cfg.SenderPassword = "app-password"
	cfg.SMTPServer = "127.0.0.1"
	cfg.SMTPPort = port
	cfg.SendTimeout = 2 * time.Second
	return cfg
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) *errors.StandardError {
	t.Helper()
	require.Error(t, err)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok, "expected StandardError, got %T: %v", err, err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// SMTP delivery
// ==========================

func TestMailer_SendOverSMTP(t *testing.T) {
	server := startSMTPServer(t, false)
	path := writeReport(t, "# Strategic Analysis Report: Acme Co\n")

	mailer := NewMailer(smtpConfig(server.port), nil, logger.NewTestLogger(t))
	err := mailer.Send(context.Background(), Message{
		Recipient:      "j.doe@acme.example",
		Subject:        ReportSubject("Acme Co"),
		Body:           ReportBody("Acme Co", "2024-05-01_10-00-00"),
		AttachmentPath: path,
	})
	require.NoError(t, err)

	auth, from, rcpts, data := server.received()
	assert.True(t, strings.HasPrefix(auth, "AUTH PLAIN"))
	assert.Equal(t, "MAIL FROM:<crew@example.com>", from)
	assert.Equal(t, []string{"RCPT TO:<j.doe@acme.example>"}, rcpts)

	assert.Contains(t, data, "From: crew@example.com")
	assert.Contains(t, data, "To: j.doe@acme.example")
	assert.Contains(t, data, "Subject: Strategic Analysis Report: Acme Co")
	assert.Contains(t, data, "Content-Disposition: attachment; filename= Acme_Co_2024-05-01_10-00-00.txt")
	assert.Contains(t, data, base64.StdEncoding.EncodeToString([]byte("# Strategic Analysis Report: Acme Co\n")))
}

func TestMailer_SendReport_AuthRejected(t *testing.T) {
	server := startSMTPServer(t, true)
	path := writeReport(t, "report")

	mailer := NewMailer(smtpConfig(server.port), nil, logger.NewTestLogger(t))
	err := mailer.Send(context.Background(), Message{
		Recipient:      "j.doe@acme.example",
		Subject:        "s",
		Body:           "b",
		AttachmentPath: path,
	})
	requireCode(t, err, errors.ErrCodeMailAuthFailed)

	_, from, _, data := server.received()
	assert.Empty(t, from)
	assert.Empty(t, data)
}

func TestMailer_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	mailer := NewMailer(smtpConfig(port), nil, logger.NewNoOpLogger())
	ok := mailer.SendReport(context.Background(), "j.doe@acme.example", "Acme Co", "ts", writeReport(t, "x"))
	assert.False(t, ok)
}

// ==========================
// Preconditions
// ==========================

func TestMailer_PreconditionOrder(t *testing.T) {
	existing := writeReport(t, "report")
	missingFile := filepath.Join(t.TempDir(), "absent.txt")

	tests := []struct {
		name      string
		mutate    func(*Config)
		recipient string
		path      string
		code      errors.ErrorCode
		contains  string
	}{
		{
			name:      "incomplete config wins over everything",
			mutate:    func(c *Config) { c.SenderPassword = "" },
			recipient: "nobody",
			path:      missingFile,
			code:      errors.ErrCodeMailNotConfigured,
			contains:  "sender_password",
		},
		{
			name:      "all settings missing are listed",
			mutate:    func(c *Config) { *c = *DefaultConfig() },
			recipient: "j.doe@acme.example",
			path:      existing,
			code:      errors.ErrCodeMailNotConfigured,
			contains:  "sender_address, sender_password, smtp_server, smtp_port",
		},
		{
			name:      "recipient without at sign before missing file",
			recipient: "j.doe.acme.example",
			path:      missingFile,
			code:      errors.ErrCodeMailInvalidRecipient,
			contains:  "j.doe.acme.example",
		},
		{
			name:      "missing attachment before bad port",
			mutate:    func(c *Config) { c.SMTPPort = "smtp" },
			recipient: "j.doe@acme.example",
			path:      missingFile,
			code:      errors.ErrCodeMailAttachmentMissing,
			contains:  "absent.txt",
		},
		{
			name:      "non-numeric port",
			mutate:    func(c *Config) { c.SMTPPort = "smtp" },
			recipient: "j.doe@acme.example",
			path:      existing,
			code:      errors.ErrCodeMailNotConfigured,
			contains:  `"smtp"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smtpConfig("587")
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			mailer := NewMailer(cfg, nil, logger.NewNoOpLogger())

			err := mailer.Send(context.Background(), Message{
				Recipient:      tt.recipient,
				Subject:        "s",
				Body:           "b",
				AttachmentPath: tt.path,
			})
			stdErr := requireCode(t, err, tt.code)
			assert.Contains(t, stdErr.Details, tt.contains)

			assert.False(t, mailer.SendReport(context.Background(), tt.recipient, "Acme Co", "ts", tt.path))
		})
	}
}

// ==========================
// SES delivery
// ==========================

type MockRawEmailSender struct {
	mock.Mock
}

func (m *MockRawEmailSender) SendRawEmail(ctx context.Context, input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendRawEmailOutput), args.Error(1)
}

func sesConfig() *Config {
	cfg := DefaultConfig()
	cfg.Transport = config.MailTransportSES
	cfg.SenderAddress = "reports@example.com"
	return cfg
}

func TestMailer_SendOverSES(t *testing.T) {
	sender := new(MockRawEmailSender)
	sender.On("SendRawEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendRawEmailInput) bool {
		return *in.Source == "reports@example.com" &&
			len(in.Destinations) == 1 && in.Destinations[0] == "j.doe@acme.example" &&
			strings.Contains(string(in.RawMessage.Data), "Subject: Strategic Analysis Report: Acme Co")
	})).Return(&ses.SendRawEmailOutput{}, nil).Once()

	mailer := NewMailer(sesConfig(), NewSESTransport(sender), logger.NewTestLogger(t))
	out, err := mailer.Execute(context.Background(), &Input{
		Recipient:       "j.doe@acme.example",
		ReportPath:      writeReport(t, "report"),
		Target:          "Acme Co",
		ReportTimestamp: "2024-05-01_10-00-00",
	})
	require.NoError(t, err)
	assert.True(t, out.Sent)
	assert.Equal(t, "SES", out.Provider)
	sender.AssertExpectations(t)
}

func TestMailer_SESFailureIsRetryable(t *testing.T) {
	sender := new(MockRawEmailSender)
	sender.On("SendRawEmail", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	mailer := NewMailer(sesConfig(), NewSESTransport(sender), logger.NewNoOpLogger())
	err := mailer.Send(context.Background(), Message{
		Recipient:      "j.doe@acme.example",
		AttachmentPath: writeReport(t, "report"),
	})
	stdErr := requireCode(t, err, errors.ErrCodeMailSendFailed)
	assert.True(t, stdErr.Retryable)
}

func TestMailer_SESWithoutClient(t *testing.T) {
	mailer := NewMailer(sesConfig(), nil, logger.NewNoOpLogger())
	err := mailer.Send(context.Background(), Message{Recipient: "a@b.c", AttachmentPath: writeReport(t, "x")})
	stdErr := requireCode(t, err, errors.ErrCodeMailNotConfigured)
	assert.Contains(t, stdErr.Details, "ses client")
}

// ==========================
// Message rendering
// ==========================

func TestBuildMessage(t *testing.T) {
	attachment := []byte(strings.Repeat("report line\n", 20))
	raw, err := buildMessage("crew@example.com", "j.doe@acme.example", "Strategic Analysis Report: Ünïcode",
		"Body text", "/tmp/reports/Acme_Co.txt", attachment, "crewboundary")
	require.NoError(t, err)

	msg := string(raw)
	assert.True(t, strings.HasPrefix(msg, "From: crew@example.com\r\nTo: j.doe@acme.example\r\n"))
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.Contains(t, msg, "Content-Type: multipart/mixed; boundary=\"crewboundary\"\r\n")
	assert.Contains(t, msg, "--crewboundary\r\n")
	assert.Contains(t, msg, "Content-Transfer-Encoding: quoted-printable")
	assert.Contains(t, msg, "Content-Disposition: attachment; filename= Acme_Co.txt")
	assert.True(t, strings.HasSuffix(msg, "--crewboundary--\r\n"))

	encoded := base64.StdEncoding.EncodeToString(attachment)
	assert.Contains(t, msg, encoded[:base64LineLength]+"\r\n")
}

func TestReportSubjectAndBody(t *testing.T) {
	assert.Equal(t, "Strategic Analysis Report: Acme Co", ReportSubject("Acme Co"))
	assert.Equal(t, "Strategic Analysis Report: Analysis", ReportSubject(""))

	body := ReportBody("Acme Co", "2024-05-01_10-00-00")
	assert.Contains(t, body, "Acme Co")
	assert.Contains(t, body, "2024-05-01_10-00-00")
}
