package usecase

import (
	"context"

	"github.com/kundanj/leadpilot/internal/entity"
	"github.com/kundanj/leadpilot/internal/infra/queue"
)

// Extractor turns free text into a best-effort field mapping.
type Extractor interface {
	Extract(ctx context.Context, userText string) (entity.LeadRecord, error)
}

// AssigneeDirectory resolves assignee IDs to people.
type AssigneeDirectory interface {
	Lookup(id string) (entity.Assignee, bool)
}

// EmailService sends a message and returns a delivery identifier.
type EmailService interface {
	Send(to, subject, body string) (string, error)
}

// LeadStore persists a lead in the CRM and returns its acknowledgement.
type LeadStore interface {
	Save(ctx context.Context, lead entity.LeadRecord) (map[string]any, error)
}

// EventProducer publishes assignment events for the audit worker. Optional:
// a nil producer disables the audit trail.
type EventProducer interface {
	PublishLeadAssigned(ctx context.Context, payload queue.LeadAssignedPayload) error
}
