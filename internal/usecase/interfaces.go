package usecase

import (
	"context"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// Notification is the rendered artifact handed to the delivery sink.
type Notification struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	HTMLBody  string `json:"htmlBody"`
	CallID    string `json:"callId"`
	LeadID    string `json:"leadId,omitempty"`
}

// NotificationSink delivers a rendered notification. Fire-and-forget from
// the caller's point of view: failures are logged at the boundary, never
// surfaced to the webhook sender.
type NotificationSink interface {
	Deliver(ctx context.Context, n Notification) error
}

// CallTrigger forwards a captured lead to the automation relay that places
// the outbound call.
type CallTrigger interface {
	TriggerCall(ctx context.Context, lead *entity.Lead) error
}
