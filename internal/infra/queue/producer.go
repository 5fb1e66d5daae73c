package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadAssignedPayload is published after a lead has been notified and stored.
// The audit worker consumes it; the request path never waits on it.
type LeadAssignedPayload struct {
	AssigneeID     string    `json:"assignee_id"`
	AssigneeName   string    `json:"assignee_name"`
	LeadName       string    `json:"lead_name"`
	Org            string    `json:"org"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	EmailMessageID string    `json:"email_message_id"`
	AssignedAt     time.Time `json:"assigned_at"`
}

type Producer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{Ch: ch}
}

func (p *Producer) PublishLeadAssigned(ctx context.Context, payload LeadAssignedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue: marshal payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("queue: publish lead.assigned: %w", err)
	}
	return nil
}
