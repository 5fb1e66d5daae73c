package entity

// Field names the extractor is asked to produce. The CRM accepts a few more
// (City, State, Address, Country, Pincode, GSTNo, GSTStateCode, Designation,
// Industry) which pass through unchanged when present.
const (
	FieldName       = "Name"
	FieldOrg        = "Org"
	FieldEmail      = "Email"
	FieldPhone      = "Phone"
	FieldSource     = "Source"
	FieldStatus     = "Status"
	FieldSummary    = "Summary"
	FieldAssignedTo = "AssignedTo"
)

// RequiredFields must be non-empty before a lead may be notified or stored.
var RequiredFields = []string{FieldName, FieldEmail, FieldPhone, FieldOrg}

// LeadRecord is the field mapping produced by the extractor. All values are
// free text; absent fields are either missing keys or empty strings.
type LeadRecord map[string]string

// Get returns the value for key, or "" when the key is absent.
func (r LeadRecord) Get(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}

// MissingRequired returns the required fields that are absent or empty,
// in the canonical order of RequiredFields.
func (r LeadRecord) MissingRequired() []string {
	var missing []string
	for _, f := range RequiredFields {
		if r.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Clone returns a copy so callers can attach fields without mutating the
// original record.
func (r LeadRecord) Clone() LeadRecord {
	out := make(LeadRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
