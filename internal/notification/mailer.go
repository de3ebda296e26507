package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mailer delivers one message. html may be empty.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

// NewMailer returns an SMTP mailer, or a logging no-op when no host is set.
func NewMailer(cfg SMTPConfig, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}
	if !cfg.Enabled() {
		return NopMailer{logger: l}
	}
	return &smtpMailer{cfg: cfg, dialTimeout: 10 * time.Second}
}

type NopMailer struct {
	logger *zap.Logger
}

func (m NopMailer) Send(_ context.Context, to, subject, _, _ string) error {
	if m.logger != nil {
		m.logger.Debug("smtp disabled, mail dropped",
			zap.String("to", to),
			zap.String("subject", subject),
		)
	}
	return nil
}

type smtpMailer struct {
	cfg         SMTPConfig
	dialTimeout time.Duration
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, text, html string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("smtp: empty recipient")
	}
	msg, err := buildMessage(s.cfg.From, to, subject, text, html)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	dialer := net.Dialer{Timeout: s.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

var (
	errHeaderInjection = errors.New("mail address contains a line break")
	headerLineBreaks   = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
)

// buildMessage renders a multipart/alternative message. Without html the
// message is plain text only. Addresses containing CR or LF are rejected; in
// the subject they are folded to spaces and non-ASCII text is RFC 2047 encoded.
func buildMessage(from, to, subject, text, html string) ([]byte, error) {
	if strings.ContainsAny(from, "\r\n") || strings.ContainsAny(to, "\r\n") {
		return nil, errHeaderInjection
	}
	subject = mime.QEncoding.Encode("utf-8", headerLineBreaks.Replace(subject))

	var buf bytes.Buffer
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
	}

	if html == "" {
		headers = append(headers, `Content-Type: text/plain; charset="UTF-8"`, "")
		buf.WriteString(strings.Join(headers, "\r\n") + "\r\n" + text)
		return buf.Bytes(), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range []struct{ contentType, content string }{
		{`text/plain; charset="UTF-8"`, text},
		{`text/html; charset="UTF-8"`, html},
	} {
		pw, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	headers = append(headers,
		fmt.Sprintf(`Content-Type: multipart/alternative; boundary="%s"`, mw.Boundary()),
		"",
	)
	buf.WriteString(strings.Join(headers, "\r\n") + "\r\n")
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}
