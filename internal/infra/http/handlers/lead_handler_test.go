package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundanj/leadpilot/internal/entity"
	"github.com/kundanj/leadpilot/internal/usecase"
)

type stubExtractor struct {
	record entity.LeadRecord
	err    error
}

func (s *stubExtractor) Extract(ctx context.Context, userText string) (entity.LeadRecord, error) {
	return s.record, s.err
}

type stubEmail struct {
	id    string
	err   error
	calls int
}

func (s *stubEmail) Send(to, subject, body string) (string, error) {
	s.calls++
	return s.id, s.err
}

type stubStore struct {
	ack   map[string]any
	err   error
	calls int
}

func (s *stubStore) Save(ctx context.Context, lead entity.LeadRecord) (map[string]any, error) {
	s.calls++
	return s.ack, s.err
}

func newTestUC(extractor *stubExtractor, email *stubEmail, store *stubStore) *usecase.ProcessLeadUseCase {
	dir := entity.NewDirectory([]entity.Assignee{
		{ID: "7294", Name: "Kundan", Email: "kundan@example.com"},
	})
	return usecase.NewProcessLeadUseCase(extractor, dir, email, store, nil)
}

func postExtract(t *testing.T, h *LeadHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/extract-lead", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.HandleExtract(rec, req)
	return rec
}

func TestHandleExtractSuccess(t *testing.T) {
	extractor := &stubExtractor{record: entity.LeadRecord{
		"Name": "John Doe", "Org": "Acme Corp", "Email": "john@acme.com", "Phone": "555-1234",
		"Source": "", "Status": "Open", "Summary": "",
	}}
	email := &stubEmail{id: "msg-1"}
	store := &stubStore{ack: map[string]any{"id": "crm-9"}}

	h := NewLeadHandler(newTestUC(extractor, email, store))
	rec := postExtract(t, h, `{"user_text":"John Doe, Acme Corp, john@acme.com, 555-1234","assigned_to_id":"7294"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		LeadData       map[string]string `json:"lead_data"`
		EmailMessageID string            `json:"email_message_id"`
		CRMResponse    map[string]any    `json:"crm_response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Kundan", resp.LeadData["AssignedTo"])
	assert.Equal(t, "msg-1", resp.EmailMessageID)
	assert.Equal(t, map[string]any{"id": "crm-9"}, resp.CRMResponse)
}

func TestHandleExtractValidationGap(t *testing.T) {
	extractor := &stubExtractor{record: entity.LeadRecord{"Name": "John Doe"}}
	email := &stubEmail{}
	store := &stubStore{}

	h := NewLeadHandler(newTestUC(extractor, email, store))
	rec := postExtract(t, h, `{"user_text":"John Doe","assigned_to_id":"7294"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Error         string            `json:"error"`
		MissingFields []string          `json:"missing_fields"`
		LeadData      map[string]string `json:"lead_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Missing required fields in lead data", resp.Error)
	assert.Equal(t, []string{"Email", "Phone", "Org"}, resp.MissingFields)
	assert.Equal(t, "John Doe", resp.LeadData["Name"])
	assert.Zero(t, email.calls)
	assert.Zero(t, store.calls)
}

func TestHandleExtractExtractionError(t *testing.T) {
	extractor := &stubExtractor{err: errors.New("model unreachable")}

	h := NewLeadHandler(newTestUC(extractor, &stubEmail{}, &stubStore{}))
	rec := postExtract(t, h, `{"user_text":"x","assigned_to_id":"7294"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "extraction:")
}

func TestHandleExtractUnknownAssignee(t *testing.T) {
	extractor := &stubExtractor{record: entity.LeadRecord{
		"Name": "J", "Org": "A", "Email": "j@a.com", "Phone": "5",
	}}
	email := &stubEmail{}
	store := &stubStore{}

	h := NewLeadHandler(newTestUC(extractor, email, store))
	rec := postExtract(t, h, `{"user_text":"x","assigned_to_id":"9999"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "assignee:")
	assert.Zero(t, email.calls)
	assert.Zero(t, store.calls)
}

func TestHandleExtractNotificationErrorSkipsStore(t *testing.T) {
	extractor := &stubExtractor{record: entity.LeadRecord{
		"Name": "J", "Org": "A", "Email": "j@a.com", "Phone": "5",
	}}
	email := &stubEmail{err: errors.New("smtp down")}
	store := &stubStore{}

	h := NewLeadHandler(newTestUC(extractor, email, store))
	rec := postExtract(t, h, `{"user_text":"x","assigned_to_id":"7294"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "notification:")
	assert.Zero(t, store.calls)
}

func TestHandleExtractBadRequests(t *testing.T) {
	h := NewLeadHandler(newTestUC(&stubExtractor{}, &stubEmail{}, &stubStore{}))

	rec := postExtract(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postExtract(t, h, `{"assigned_to_id":"7294"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_text is required")
}

func TestHandleExtractRateLimit(t *testing.T) {
	extractor := &stubExtractor{record: entity.LeadRecord{"Name": "J"}}
	h := NewLeadHandler(newTestUC(extractor, &stubEmail{}, &stubStore{}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/extract-lead", bytes.NewBufferString(`{"user_text":"x","assigned_to_id":"7294"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		h.HandleExtract(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
}
