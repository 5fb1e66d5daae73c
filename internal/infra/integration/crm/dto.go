package crm

import "github.com/kundanj/leadpilot/internal/entity"

// leadPayload is the fixed schema the CRM expects. Field order here fixes
// the JSON key order, which keeps Normalize deterministic byte for byte.
type leadPayload struct {
	Org          string `json:"org"`
	City         string `json:"city"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	State        string `json:"state"`
	GSTNo        string `json:"gst_no"`
	Address      string `json:"address"`
	Country      string `json:"country"`
	Pincode      string `json:"pincode"`
	AssignedTo   string `json:"assigned_to"`
	Description  string `json:"description"`
	Designation  string `json:"designation"`
	LeadSource   string `json:"lead_source"`
	LeadStatus   string `json:"lead_status"`
	ContactName  string `json:"contact_name"`
	IndustryType string `json:"industry_type"`
	GSTStateCode string `json:"gst_state_code"`
}

// Normalize maps a LeadRecord onto the CRM schema, applying the CRM's
// defaults for absent fields.
func Normalize(lead entity.LeadRecord) leadPayload {
	return leadPayload{
		Org:          lead.Get("Org"),
		City:         lead.Get("City"),
		Email:        lead.Get("Email"),
		Phone:        lead.Get("Phone"),
		State:        lead.Get("State"),
		GSTNo:        lead.Get("GSTNo"),
		Address:      lead.Get("Address"),
		Country:      defaultStr(lead.Get("Country"), "India"),
		Pincode:      lead.Get("Pincode"),
		AssignedTo:   defaultStr(lead.Get("AssignedTo"), "crmsuperadmin"),
		Description:  lead.Get("Summary"),
		Designation:  lead.Get("Designation"),
		LeadSource:   defaultStr(lead.Get("Source"), "Trade Show"),
		LeadStatus:   defaultStr(lead.Get("Status"), "New"),
		ContactName:  lead.Get("Name"),
		IndustryType: defaultStr(lead.Get("Industry"), "Other"),
		GSTStateCode: lead.Get("GSTStateCode"),
	}
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
