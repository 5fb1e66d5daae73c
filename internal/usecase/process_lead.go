package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kundanj/leadpilot/internal/entity"
	"github.com/kundanj/leadpilot/internal/infra/mail"
	"github.com/kundanj/leadpilot/internal/infra/queue"
)

type ProcessLeadInput struct {
	UserText     string `json:"user_text"`
	AssignedToID string `json:"assigned_to_id"`
}

// ProcessLeadResult is either a completed pipeline run or, when
// MissingFields is non-empty, the validation-gate outcome with the partial
// record.
type ProcessLeadResult struct {
	Lead           entity.LeadRecord
	EmailMessageID string
	CRMResponse    map[string]any
	MissingFields  []string
}

// ProcessLeadUseCase runs the lead pipeline: extract, validate required
// fields, resolve the assignee, notify by email, store in the CRM. Each
// stage gates the next; a notification failure means the lead is never
// stored.
type ProcessLeadUseCase struct {
	Extractor Extractor
	Directory AssigneeDirectory
	Email     EmailService
	Store     LeadStore
	Producer  EventProducer
}

func NewProcessLeadUseCase(
	extractor Extractor,
	directory AssigneeDirectory,
	email EmailService,
	store LeadStore,
	producer EventProducer,
) *ProcessLeadUseCase {
	return &ProcessLeadUseCase{
		Extractor: extractor,
		Directory: directory,
		Email:     email,
		Store:     store,
		Producer:  producer,
	}
}

func (uc *ProcessLeadUseCase) Execute(ctx context.Context, input ProcessLeadInput) (*ProcessLeadResult, error) {
	lead, err := uc.Extractor.Extract(ctx, input.UserText)
	if err != nil {
		return nil, newStageError(StageExtraction, err)
	}

	if missing := lead.MissingRequired(); len(missing) > 0 {
		return &ProcessLeadResult{Lead: lead, MissingFields: missing}, nil
	}

	assignee, ok := uc.Directory.Lookup(input.AssignedToID)
	if !ok {
		return nil, &StageError{Stage: StageAssignee, Message: "invalid assignee ID provided"}
	}

	zap.L().Info("sending lead notification",
		zap.String("assignee_id", assignee.ID),
		zap.String("assignee_email", assignee.Email),
	)

	body := mail.RenderAssignment(assignee.Name, lead)
	subject := mail.AssignmentSubject(lead)

	messageID, err := uc.Email.Send(assignee.Email, subject, body)
	if err != nil {
		// No email, no store: the lead is not persisted when the assignee
		// was never notified.
		return nil, newStageError(StageNotification, err)
	}

	stored := lead.Clone()
	stored[entity.FieldAssignedTo] = assignee.Name

	ack, err := uc.Store.Save(ctx, stored)
	if err != nil {
		return nil, newStageError(StageStore, err)
	}

	uc.publishAssigned(ctx, assignee, stored, messageID)

	return &ProcessLeadResult{
		Lead:           stored,
		EmailMessageID: messageID,
		CRMResponse:    ack,
	}, nil
}

// publishAssigned emits the audit event. Best effort: a broker failure is
// logged and the request still succeeds.
func (uc *ProcessLeadUseCase) publishAssigned(ctx context.Context, assignee entity.Assignee, lead entity.LeadRecord, messageID string) {
	if uc.Producer == nil {
		return
	}

	payload := queue.LeadAssignedPayload{
		AssigneeID:     assignee.ID,
		AssigneeName:   assignee.Name,
		LeadName:       lead.Get(entity.FieldName),
		Org:            lead.Get(entity.FieldOrg),
		Email:          lead.Get(entity.FieldEmail),
		Phone:          lead.Get(entity.FieldPhone),
		EmailMessageID: messageID,
		AssignedAt:     time.Now().UTC(),
	}

	if err := uc.Producer.PublishLeadAssigned(ctx, payload); err != nil {
		zap.L().Warn("failed to publish lead.assigned event", zap.Error(err))
	}
}
