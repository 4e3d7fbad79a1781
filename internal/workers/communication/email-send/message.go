package emailsend

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"path/filepath"
)

const base64LineLength = 76

// ReportSubject is the subject line of a report mail.
func ReportSubject(target string) string {
	if target == "" {
		target = "Analysis"
	}
	return "Strategic Analysis Report: " + target
}

// ReportBody is the plain-text body of a report mail.
func ReportBody(target, timestamp string) string {
	if target == "" {
		target = "the target"
	}
	return fmt.Sprintf("Please find attached the strategic analysis report for %s, generated on %s.\n\n"+
		"This report was generated by the research-crew analysis system.", target, timestamp)
}

// buildMessage renders a multipart/mixed message: a text/plain body and the
// attachment as base64 application/octet-stream. An empty boundary is
// generated randomly.
func buildMessage(from, to, subject, body, attachmentPath string, attachment []byte, boundary string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if boundary != "" {
		if err := mw.SetBoundary(boundary); err != nil {
			return nil, err
		}
	}

	var head bytes.Buffer
	fmt.Fprintf(&head, "From: %s\r\n", from)
	fmt.Fprintf(&head, "To: %s\r\n", to)
	fmt.Fprintf(&head, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	head.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&head, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=utf-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, err
	}
	qp := quotedprintable.NewWriter(text)
	if _, err := qp.Write([]byte(body)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	file, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/octet-stream"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {"attachment; filename= " + filepath.Base(attachmentPath)},
	})
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > base64LineLength {
		if _, err := file.Write([]byte(encoded[:base64LineLength] + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[base64LineLength:]
	}
	if _, err := file.Write([]byte(encoded + "\r\n")); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return append(head.Bytes(), buf.Bytes()...), nil
}
