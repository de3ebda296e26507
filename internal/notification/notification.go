// Package notification renders and delivers the leave workflow mails.
package notification

import "context"

const (
	TemplateLeaveRequested = "leave_requested"
	TemplateLeaveDecided   = "leave_decided"
)

// Param keys understood by the leave templates.
const (
	ParamRecipientName = "recipient_name"
	ParamEmployeeName  = "employee_name"
	ParamLeaveID       = "leave_id"
	ParamFromDate      = "from_date"
	ParamToDate        = "to_date"
	ParamReason        = "reason"
	ParamStatus        = "status"
	ParamDecidedBy     = "decided_by"
	ParamComments      = "comments"
)

// Notification is a request to tell Recipient (an email address) about a
// leave event.
type Notification struct {
	Recipient  string            `json:"recipient"`
	TemplateID string            `json:"template_id"`
	Params     map[string]string `json:"params"`
}

// Notifier makes one best-effort delivery attempt and reports whether it
// went through. It never returns an error to the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification) bool
}

type NotifierFunc func(ctx context.Context, n Notification) bool

func (f NotifierFunc) Notify(ctx context.Context, n Notification) bool {
	return f(ctx, n)
}
