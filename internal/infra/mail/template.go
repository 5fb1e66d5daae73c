package mail

import (
	"strings"
	"text/template"

	"github.com/kundanj/leadpilot/internal/entity"
)

// assignmentTemplate is the fixed notification body. Field order is part of
// the contract; missing fields render as empty strings.
const assignmentTemplate = `Dear {{.Assignee}},

A new lead has been assigned to you in CRM.
Details:
- Name: {{.Lead.Get "Name"}}
- Organization: {{.Lead.Get "Org"}}
- Email: {{.Lead.Get "Email"}}
- Phone: {{.Lead.Get "Phone"}}
- Lead Source: {{.Lead.Get "Source"}}
- Status: {{.Lead.Get "Status"}}
- Summary: {{.Lead.Get "Summary"}}

Please log into the CRM dashboard to review and manage this lead.

Regards,
CRM Team
`

var assignmentTmpl = template.Must(template.New("assignment").Parse(assignmentTemplate))

// RenderAssignment renders the assignment notification body. It is a pure,
// total function: it never fails for any assignee name or record.
func RenderAssignment(assigneeName string, lead entity.LeadRecord) string {
	var b strings.Builder
	// The template only calls Get on the record, which cannot fail.
	_ = assignmentTmpl.Execute(&b, struct {
		Assignee string
		Lead     entity.LeadRecord
	}{Assignee: assigneeName, Lead: lead})
	return b.String()
}

// AssignmentSubject builds the notification subject line.
func AssignmentSubject(lead entity.LeadRecord) string {
	name := lead.Get(entity.FieldName)
	if name == "" {
		name = "Unnamed Lead"
	}
	return "New Lead Assigned: " + name
}
