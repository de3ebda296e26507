package notification_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-leave/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, text, html string
	hasDeadline             bool
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, text, html string) error {
	_, ok := ctx.Deadline()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, text: text, html: html, hasDeadline: ok})
	return f.err
}

func requestedNotification() notification.Notification {
	return notification.Notification{
		Recipient:  "manager@corp.test",
		TemplateID: notification.TemplateLeaveRequested,
		Params: map[string]string{
			notification.ParamRecipientName: "Maya",
			notification.ParamEmployeeName:  "Eli <script>",
			notification.ParamLeaveID:       "42",
			notification.ParamFromDate:      "2025-03-10",
			notification.ParamToDate:        "2025-03-12",
			notification.ParamReason:        "family",
		},
	}
}

func TestMailNotifier_Render(t *testing.T) {
	n, err := notification.NewMailNotifier(&fakeMailer{}, time.Second)
	require.NoError(t, err)

	t.Run("leave requested", func(t *testing.T) {
		msg, err := n.Render(requestedNotification())
		require.NoError(t, err)

		assert.Equal(t, "manager@corp.test", msg.To)
		assert.Equal(t, "Leave Request from Eli <script> (Leave ID: 42)", msg.Subject)
		assert.Contains(t, msg.Text, "Hello Maya,")
		assert.Contains(t, msg.Text, "from 2025-03-10 to 2025-03-12")
		assert.Contains(t, msg.Text, "Reason: family")
		assert.Contains(t, msg.HTML, "Eli &lt;script&gt;")
		assert.NotContains(t, msg.HTML, "<script>")
	})

	t.Run("leave decided capitalizes the subject status", func(t *testing.T) {
		msg, err := n.Render(notification.Notification{
			Recipient:  "eli@corp.test",
			TemplateID: notification.TemplateLeaveDecided,
			Params: map[string]string{
				notification.ParamRecipientName: "Eli",
				notification.ParamLeaveID:       "42",
				notification.ParamFromDate:      "2025-03-10",
				notification.ParamToDate:        "2025-03-12",
				notification.ParamStatus:        "approved",
				notification.ParamDecidedBy:     "Maya",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "Your Leave Request (ID: 42) has been Approved", msg.Subject)
		assert.Contains(t, msg.Text, "has been approved by Maya.")
		assert.NotContains(t, msg.Text, "Comments:")
		assert.NotContains(t, msg.Text, "<no value>")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := n.Render(notification.Notification{Recipient: "x@corp.test", TemplateID: "nope"})
		assert.Error(t, err)
	})

	t.Run("missing recipient", func(t *testing.T) {
		notif := requestedNotification()
		notif.Recipient = ""
		_, err := n.Render(notif)
		assert.Error(t, err)
	})
}

func TestMailNotifier_Notify(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mailer := &fakeMailer{}
		n, err := notification.NewMailNotifier(mailer, time.Second)
		require.NoError(t, err)

		ok := n.Notify(context.Background(), requestedNotification())

		assert.True(t, ok)
		require.Len(t, mailer.sent, 1)
		assert.True(t, mailer.sent[0].hasDeadline)
		assert.True(t, strings.HasPrefix(mailer.sent[0].subject, "Leave Request from"))
	})

	t.Run("send failure is reported not raised", func(t *testing.T) {
		mailer := &fakeMailer{err: errors.New("connection refused")}
		n, err := notification.NewMailNotifier(mailer, time.Second)
		require.NoError(t, err)

		assert.False(t, n.Notify(context.Background(), requestedNotification()))
		assert.Len(t, mailer.sent, 1)
	})

	t.Run("cancelled request context still sends", func(t *testing.T) {
		mailer := &fakeMailer{}
		n, err := notification.NewMailNotifier(mailer, time.Second)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.True(t, n.Notify(ctx, requestedNotification()))
	})

	t.Run("render failure skips the mailer", func(t *testing.T) {
		mailer := &fakeMailer{}
		n, err := notification.NewMailNotifier(mailer, time.Second)
		require.NoError(t, err)

		assert.False(t, n.Notify(context.Background(), notification.Notification{TemplateID: "nope"}))
		assert.Empty(t, mailer.sent)
	})
}

func TestNewMailer_WithoutHostIsNop(t *testing.T) {
	m := notification.NewMailer(notification.SMTPConfig{})
	_, ok := m.(notification.NopMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), "a@corp.test", "s", "t", ""))
}
