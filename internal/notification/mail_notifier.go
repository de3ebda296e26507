package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

const defaultSendTimeout = 10 * time.Second

// Message is a rendered notification ready for a Mailer.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// MailNotifier renders a Notification from the embedded templates and sends
// it through a Mailer with a bounded timeout.
type MailNotifier struct {
	mailer  Mailer
	text    *texttemplate.Template
	html    *htmltemplate.Template
	timeout time.Duration
	logger  *zap.Logger
}

func NewMailNotifier(mailer Mailer, timeout time.Duration, logger ...*zap.Logger) (*MailNotifier, error) {
	l := zap.L().Named("notification.mail")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mail")
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	funcs := map[string]any{
		"title": func(s string) string {
			return cases.Title(language.English).String(s)
		},
	}

	text, err := texttemplate.New("text").
		Funcs(funcs).
		Option("missingkey=zero").
		ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmltemplate.New("html").
		Funcs(funcs).
		Option("missingkey=zero").
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}

	return &MailNotifier{
		mailer:  mailer,
		text:    text,
		html:    html,
		timeout: timeout,
		logger:  l,
	}, nil
}

func (n *MailNotifier) Render(notif Notification) (Message, error) {
	if notif.Recipient == "" {
		return Message{}, fmt.Errorf("notification %q has no recipient", notif.TemplateID)
	}
	params := notif.Params
	if params == nil {
		params = map[string]string{}
	}

	subject, err := n.execText(notif.TemplateID+".subject", params)
	if err != nil {
		return Message{}, err
	}
	text, err := n.execText(notif.TemplateID+".text", params)
	if err != nil {
		return Message{}, err
	}

	var html bytes.Buffer
	if err := n.html.ExecuteTemplate(&html, notif.TemplateID+".html", params); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", notif.TemplateID, err)
	}

	return Message{
		To:      notif.Recipient,
		Subject: subject,
		Text:    text,
		HTML:    html.String(),
	}, nil
}

func (n *MailNotifier) execText(name string, params map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := n.text.ExecuteTemplate(&buf, name, params); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Notify renders and sends once. Cancellation of ctx does not abort the
// send; the notifier's own timeout does.
func (n *MailNotifier) Notify(ctx context.Context, notif Notification) bool {
	log := n.logger.With(
		zap.String("template", notif.TemplateID),
		zap.String("recipient", notif.Recipient),
	)

	msg, err := n.Render(notif)
	if err != nil {
		log.Warn("notification render failed", zap.Error(err))
		return false
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	if err := n.mailer.Send(sendCtx, msg.To, msg.Subject, msg.Text, msg.HTML); err != nil {
		log.Warn("notification send failed", zap.Error(err))
		return false
	}

	log.Info("notification sent")
	return true
}
