package events

import "time"

const LeaveNotificationRequestedTopic = "leave.notification.requested.v1"

const LeaveNotificationRequestedType = "leave.notification.requested"

type LeaveNotificationRequestedEvent struct {
	EventType      string            `json:"event_type"`
	NotificationID string            `json:"notification_id"`
	RequestID      string            `json:"request_id,omitempty"`
	Recipient      string            `json:"recipient"`
	TemplateID     string            `json:"template_id"`
	Params         map[string]string `json:"params"`
	OccurredAt     time.Time         `json:"occurred_at"`
}
