package sqlagent

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kundanj/leadpilot/internal/llm"
)

const systemPrompt = `You translate natural-language questions into SQL for a PostgreSQL database.
Return ONLY a single SELECT statement, no explanation, no markdown fences.
Never modify data: no INSERT, UPDATE, DELETE, DDL, or multiple statements.
If the question cannot be answered from the schema, return: SELECT NULL WHERE FALSE`

// Agent answers natural-language questions against the relational store. It
// prompts the model with the live schema, validates that the generated SQL is
// a single read-only SELECT, executes it, and returns the rows as structured
// data. The rows are reformatted from the result set itself, never by
// text-mangling the model output.
type Agent struct {
	llm       llm.Client
	db        *sql.DB
	model     string
	maxTokens int64
}

func NewAgent(client llm.Client, db *sql.DB, model string, maxTokens int64) *Agent {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Agent{llm: client, db: db, model: model, maxTokens: maxTokens}
}

// Run answers one question. The result is a slice of row maps keyed by
// column name, suitable for direct JSON encoding.
func (a *Agent) Run(ctx context.Context, question string) ([]map[string]any, error) {
	if a.db == nil {
		return nil, eris.New("sqlagent: database not configured")
	}

	schema, err := a.loadSchema(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "sqlagent: load schema")
	}

	resp, err := a.llm.CreateMessage(ctx, llm.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    systemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf("Schema:\n%s\n\nQuestion: %s", schema, question)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "sqlagent: model call")
	}

	query, err := CleanSQL(resp.Text())
	if err != nil {
		return nil, err
	}

	zap.L().Debug("sql agent generated query", zap.String("query", query))

	return a.execute(ctx, query)
}

// CleanSQL strips markdown fences from model output and rejects anything
// that is not a single SELECT statement.
func CleanSQL(raw string) (string, error) {
	query := strings.TrimSpace(raw)

	if strings.HasPrefix(query, "```") {
		query = strings.TrimPrefix(query, "```sql")
		query = strings.TrimPrefix(query, "```")
		if end := strings.Index(query, "```"); end >= 0 {
			query = query[:end]
		}
		query = strings.TrimSpace(query)
	}

	query = strings.TrimSuffix(query, ";")

	if query == "" {
		return "", eris.New("sqlagent: model returned empty query")
	}
	if !strings.HasPrefix(strings.ToUpper(query), "SELECT") {
		return "", eris.Errorf("sqlagent: generated query is not a SELECT: %q", query)
	}
	if strings.Contains(query, ";") {
		return "", eris.New("sqlagent: generated query contains multiple statements")
	}

	return query, nil
}

func (a *Agent) execute(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlagent: execute query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlagent: read columns")
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "sqlagent: scan row")
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			switch v := values[i].(type) {
			case []byte:
				row[col] = string(v)
			default:
				row[col] = v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlagent: iterate rows")
	}

	return out, nil
}

func (a *Agent) loadSchema(ctx context.Context) (string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public'
		ORDER BY table_name, ordinal_position
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var b strings.Builder
	current := ""
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return "", err
		}
		if table != current {
			if current != "" {
				b.WriteString("\n")
			}
			b.WriteString(table + ":")
			current = table
		}
		b.WriteString(fmt.Sprintf(" %s(%s)", column, dataType))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return b.String(), nil
}
