package database

import (
	"context"
	"database/sql"

	"github.com/kundanj/leadpilot/internal/infra/queue"
)

// AssignmentRepository writes the assignment audit trail consumed from the
// queue.
type AssignmentRepository struct {
	DB *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Record(ctx context.Context, payload queue.LeadAssignedPayload) error {
	query := `
		INSERT INTO lead_assignments
			(assignee_id, assignee_name, lead_name, org, email, phone, email_message_id, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		payload.AssigneeID,
		payload.AssigneeName,
		payload.LeadName,
		nullString(payload.Org),
		nullString(payload.Email),
		nullString(payload.Phone),
		nullString(payload.EmailMessageID),
		payload.AssignedAt,
	)
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
