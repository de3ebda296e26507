package notification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// headerBlock returns the header lines of a rendered message.
func headerBlock(t *testing.T, msg []byte) []string {
	t.Helper()
	head, _, found := strings.Cut(string(msg), "\r\n\r\n")
	require.True(t, found)
	return strings.Split(head, "\r\n")
}

func TestBuildMessage(t *testing.T) {
	t.Run("plain text only", func(t *testing.T) {
		msg, err := buildMessage("hr@corp.test", "eli@corp.test", "Hi", "body", "")
		require.NoError(t, err)

		s := string(msg)
		assert.Contains(t, s, "Subject: Hi\r\n")
		assert.Contains(t, s, `Content-Type: text/plain; charset="UTF-8"`)
		assert.True(t, strings.HasSuffix(s, "\r\n\r\nbody"))
	})

	t.Run("alternative parts", func(t *testing.T) {
		msg, err := buildMessage("hr@corp.test", "eli@corp.test", "Hi", "plain body", "<p>html body</p>")
		require.NoError(t, err)

		s := string(msg)
		assert.Contains(t, s, "Content-Type: multipart/alternative; boundary=")
		assert.Less(t, strings.Index(s, "plain body"), strings.Index(s, "<p>html body</p>"))
	})

	t.Run("line breaks in subject stay inside the subject header", func(t *testing.T) {
		n, err := NewMailNotifier(NopMailer{}, 0, zap.NewNop())
		require.NoError(t, err)
		rendered, err := n.Render(Notification{
			Recipient:  "maya@corp.test",
			TemplateID: TemplateLeaveRequested,
			Params: map[string]string{
				ParamEmployeeName: "Eve\r\nBcc: attacker@evil.test",
				ParamLeaveID:      "L1",
			},
		})
		require.NoError(t, err)

		msg, err := buildMessage("hr@corp.test", rendered.To, rendered.Subject, rendered.Text, rendered.HTML)
		require.NoError(t, err)

		headers := headerBlock(t, msg)
		for _, h := range headers {
			assert.False(t, strings.HasPrefix(h, "Bcc:"), "unexpected header %q", h)
		}
		assert.Contains(t, headers, "Subject: Leave Request from Eve Bcc: attacker@evil.test (Leave ID: L1)")
	})

	t.Run("non ascii subject is encoded", func(t *testing.T) {
		msg, err := buildMessage("hr@corp.test", "eli@corp.test", "Congé approuvé", "body", "")
		require.NoError(t, err)

		assert.Contains(t, headerBlock(t, msg), "Subject: =?utf-8?q?Cong=C3=A9_approuv=C3=A9?=")
	})

	t.Run("address with line break is rejected", func(t *testing.T) {
		_, err := buildMessage("hr@corp.test", "eli@corp.test\r\nBcc: x@evil.test", "Hi", "body", "")

		assert.ErrorIs(t, err, errHeaderInjection)
	})
}
