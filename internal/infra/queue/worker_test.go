package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

type fakeRecorder struct {
	recorded []LeadAssignedPayload
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, payload LeadAssignedPayload) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, payload)
	return nil
}

func delivery(t *testing.T, ack *fakeAcknowledger, body []byte) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestWorkerHandleAcksRecordedEvent(t *testing.T) {
	recorder := &fakeRecorder{}
	w := &Worker{Recorder: recorder}

	payload := LeadAssignedPayload{
		AssigneeID:     "7294",
		AssigneeName:   "Kundan",
		LeadName:       "John Doe",
		EmailMessageID: "<abc@leadpilot.local>",
		AssignedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(t, ack, body))

	require.Len(t, recorder.recorded, 1)
	got := recorder.recorded[0]
	assert.Equal(t, payload.AssigneeID, got.AssigneeID)
	assert.Equal(t, payload.AssigneeName, got.AssigneeName)
	assert.Equal(t, payload.LeadName, got.LeadName)
	assert.Equal(t, payload.EmailMessageID, got.EmailMessageID)
	assert.True(t, payload.AssignedAt.Equal(got.AssignedAt))
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestWorkerHandleNacksInvalidJSON(t *testing.T) {
	recorder := &fakeRecorder{}
	w := &Worker{Recorder: recorder}

	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(t, ack, []byte("not json")))

	assert.Empty(t, recorder.recorded)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue, "malformed events must go to the DLQ, not loop")
	assert.False(t, ack.acked)
}

func TestWorkerHandleNacksRecorderFailure(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("insert failed")}
	w := &Worker{Recorder: recorder}

	body, err := json.Marshal(LeadAssignedPayload{AssigneeID: "7319"})
	require.NoError(t, err)

	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(t, ack, body))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.False(t, ack.acked)
}
