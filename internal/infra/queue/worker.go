package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AssignmentRecorder persists consumed assignment events. The worker is
// decoupled from the database behind this contract.
type AssignmentRecorder interface {
	Record(ctx context.Context, payload LeadAssignedPayload) error
}

// Worker consumes lead.assigned events and writes the audit trail.
type Worker struct {
	Channel  *amqp.Channel
	Recorder AssignmentRecorder
}

func NewWorker(ch *amqp.Channel, recorder AssignmentRecorder) *Worker {
	return &Worker{Channel: ch, Recorder: recorder}
}

// Start consumes from queueName until the context is canceled or the channel
// closes. Malformed or unprocessable messages are nacked without requeue and
// end up on the DLQ.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	zap.L().Info("assignment audit worker started", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload LeadAssignedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		zap.L().Warn("assignment event has invalid JSON", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.Recorder.Record(ctx, payload); err != nil {
		zap.L().Error("failed to record assignment",
			zap.String("assignee_id", payload.AssigneeID),
			zap.Error(err),
		)
		d.Nack(false, false)
		return
	}

	zap.L().Info("assignment recorded",
		zap.String("assignee_id", payload.AssigneeID),
		zap.String("lead_name", payload.LeadName),
	)
	d.Ack(false)
}
