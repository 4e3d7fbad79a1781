package emailsend

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"research-crew/internal/common/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Transport delivers an already rendered message.
type Transport interface {
	Name() string
	Send(ctx context.Context, from string, to []string, raw []byte) error
}

// implicitTLSPort is the SMTPS port; every other port starts in plain text
// and upgrades with STARTTLS when the server offers it.
const implicitTLSPort = 465

type smtpTransport struct {
	server   string
	port     int
	username string
	password string
	timeout  time.Duration
}

func newSMTPTransport(server string, port int, username, password string, timeout time.Duration) *smtpTransport {
	return &smtpTransport{
		server:   server,
		port:     port,
		username: username,
		password: password,
		timeout:  timeout,
	}
}

func (t *smtpTransport) Name() string { return "SMTP" }

func (t *smtpTransport) Send(ctx context.Context, from string, to []string, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.NewMailSendFailedError(err)
	}

	addr := net.JoinHostPort(t.server, strconv.Itoa(t.port))
	dialer := &net.Dialer{Timeout: t.timeout}
	tlsConfig := &tls.Config{ServerName: t.server}

	var conn net.Conn
	var err error
	if t.port == implicitTLSPort {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return errors.NewMailSendFailedError(err)
	}
	_ = conn.SetDeadline(time.Now().Add(t.timeout))

	client, err := smtp.NewClient(conn, t.server)
	if err != nil {
		conn.Close()
		return errors.NewMailSendFailedError(err)
	}
	defer client.Close()

	if t.port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return errors.NewMailSendFailedError(err)
			}
		}
	}

	if err := client.Auth(smtp.PlainAuth("", t.username, t.password, t.server)); err != nil {
		return errors.NewMailAuthFailedError(err)
	}

	if err := client.Mail(from); err != nil {
		return errors.NewMailSendFailedError(err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return errors.NewMailSendFailedError(err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return errors.NewMailSendFailedError(err)
	}
	if _, err := w.Write(raw); err != nil {
		return errors.NewMailSendFailedError(err)
	}
	if err := w.Close(); err != nil {
		return errors.NewMailSendFailedError(err)
	}
	return client.Quit()
}

// RawEmailSender is the SES call the SES transport needs.
type RawEmailSender interface {
	SendRawEmail(ctx context.Context, input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error)
}

type sesTransport struct {
	client RawEmailSender
}

// NewSESTransport sends through Amazon SES.
func NewSESTransport(client RawEmailSender) Transport {
	return &sesTransport{client: client}
}

func (t *sesTransport) Name() string { return "SES" }

func (t *sesTransport) Send(ctx context.Context, from string, to []string, raw []byte) error {
	_, err := t.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(from),
		Destinations: to,
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return errors.NewMailSendFailedError(err)
	}
	return nil
}
