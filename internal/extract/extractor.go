package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/kundanj/leadpilot/internal/entity"
	"github.com/kundanj/leadpilot/internal/llm"
)

const promptTemplate = `You are a lead extractor. Extract the following fields from the user input and RETURN ONLY a JSON object (no explanation).
Keys: "Name", "Org", "Email", "Phone", "Source", "Status":"Open", "Summary".
If a field is missing, set its value to an empty string. Only a valid email should be taken; if the email is invalid, leave it empty.
Extract from this input:
%s`

// Extractor asks the model for structured lead fields. One round trip per
// call, no retry: a transport error or unparsable output is surfaced to the
// caller as a single failure.
type Extractor struct {
	llm       llm.Client
	model     string
	maxTokens int64
}

func NewExtractor(client llm.Client, model string, maxTokens int64) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Extractor{llm: client, model: model, maxTokens: maxTokens}
}

// Extract turns free text into a LeadRecord. Errors are either the wrapped
// transport error or a *ParseError carrying the raw model output.
func (e *Extractor) Extract(ctx context.Context, userText string) (entity.LeadRecord, error) {
	resp, err := e.llm.CreateMessage(ctx, llm.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, userText)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: model call")
	}

	return ParseRecord(strings.TrimSpace(resp.Text()))
}
