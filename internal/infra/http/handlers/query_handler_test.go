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
)

type stubAgent struct {
	rows []map[string]any
	err  error
}

func (s *stubAgent) Run(ctx context.Context, question string) ([]map[string]any, error) {
	return s.rows, s.err
}

func postQuery(t *testing.T, h *QueryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.HandleQuery(rec, req)
	return rec
}

func TestHandleQuerySuccess(t *testing.T) {
	h := NewQueryHandler(&stubAgent{rows: []map[string]any{
		{"contact_name": "John Doe", "lead_status": "New"},
	}})

	rec := postQuery(t, h, `{"query":"how many new leads this week?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string           `json:"status"`
		Data   []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "John Doe", resp.Data[0]["contact_name"])
}

func TestHandleQueryAgentFailureStill200(t *testing.T) {
	h := NewQueryHandler(&stubAgent{err: errors.New("schema unavailable")})

	rec := postQuery(t, h, `{"query":"anything"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "schema unavailable")
}

func TestHandleQueryRejectsEmpty(t *testing.T) {
	h := NewQueryHandler(&stubAgent{})

	rec := postQuery(t, h, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is required")

	rec = postQuery(t, h, `garbage`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}
