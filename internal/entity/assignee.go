package entity

// Assignee is a staff member who can receive lead assignments. The set is
// fixed at process start; there are no runtime mutations.
type Assignee struct {
	ID    string `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email" mapstructure:"email"`
}

// Directory resolves assignee IDs. A linear scan is fine: the set is a
// handful of people.
type Directory struct {
	assignees []Assignee
}

func NewDirectory(assignees []Assignee) *Directory {
	return &Directory{assignees: assignees}
}

// Lookup returns the assignee with the given ID, or ok=false.
func (d *Directory) Lookup(id string) (Assignee, bool) {
	for _, a := range d.assignees {
		if a.ID == id {
			return a, true
		}
	}
	return Assignee{}, false
}
