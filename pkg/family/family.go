// Package family defines the genealogical dataset consumed by the graph builder.
//
// A [Dataset] is a flat list of [Person] records that reference each other by
// identifier through parent, spouse and child lists. Events and notes ride
// along keyed by person identifier; the layout engine never reads them.
//
// Reading and validating datasets lives here because the builder in
// [github.com/matzehuels/lineage/pkg/kin] assumes validated input: every
// relationship reference must resolve to a person in the same dataset.
package family

// StatusComplete marks a person whose record was fully imported. Rich import
// formats use it together with [Person.Generation] to pick the focal person.
const StatusComplete = "complete"

// Person is one individual in the dataset. Relationship lists hold other
// persons' identifiers.
type Person struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name"`
	Biography string   `json:"biography,omitempty"`
	ParentIDs []string `json:"parentIds,omitempty"`
	SpouseIDs []string `json:"spouseIds,omitempty"`
	ChildIDs  []string `json:"childIds,omitempty"`

	// Generation is a pre-computed hint from rich imports. It only influences
	// focal person selection; the builder assigns real generations itself.
	Generation *int `json:"generation,omitempty"`
	// Status is the import status from rich imports ("complete", "partial", ...).
	Status string `json:"status,omitempty"`
}

// DisplayName returns the name if set, otherwise the identifier.
func (p *Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Event is a dated life event attached to a person.
type Event struct {
	PersonID    string `json:"personId" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
	Date        string `json:"date,omitempty"`
	Place       string `json:"place,omitempty"`
	Description string `json:"description,omitempty"`
}

// Note is free text attached to a person.
type Note struct {
	PersonID string `json:"personId" validate:"required"`
	Text     string `json:"text"`
}

// Dataset is a complete family dataset.
type Dataset struct {
	// FocalID optionally names the person the layout is centered on.
	FocalID string   `json:"focalId,omitempty"`
	People  []Person `json:"people" validate:"dive"`
	Events  []Event  `json:"events,omitempty" validate:"dive"`
	Notes   []Note   `json:"notes,omitempty" validate:"dive"`
}

// Person returns the person with the given identifier.
func (d *Dataset) Person(id string) (*Person, bool) {
	for i := range d.People {
		if d.People[i].ID == id {
			return &d.People[i], true
		}
	}
	return nil, false
}

// EventsFor returns the events attached to a person, in dataset order.
func (d *Dataset) EventsFor(id string) []Event {
	var out []Event
	for _, e := range d.Events {
		if e.PersonID == id {
			out = append(out, e)
		}
	}
	return out
}

// NotesFor returns the notes attached to a person, in dataset order.
func (d *Dataset) NotesFor(id string) []Note {
	var out []Note
	for _, n := range d.Notes {
		if n.PersonID == id {
			out = append(out, n)
		}
	}
	return out
}
