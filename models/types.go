// ABOUTME: Data models for CRM entities stored in the remote record store
// ABOUTME: Defines Property, Contact and Activity records with label-keyed field structs
package models

// Store table names.
const (
	TableProperties = "Properties"
	TableContacts   = "Contacts"
	TableActivities = "Activities"
)

// PropertyFields mirrors the Properties table columns. Optional numbers are
// pointers so that a blank value is omitted from writes instead of sent as 0.
type PropertyFields struct {
	Address        string       `json:"Address"`
	AskingPrice    *float64     `json:"Asking Price,omitempty"`
	PropertyType   PropertyType `json:"Property Type"`
	DealStage      DealStage    `json:"Deal Stage"`
	ARVEstimate    *float64     `json:"ARV Estimate,omitempty"`
	RepairEstimate *float64     `json:"Repair Estimate,omitempty"`
	Notes          string       `json:"Notes,omitempty"`
	Contact        []string     `json:"Contact,omitempty"`
}

type Property struct {
	ID          string         `json:"id"`
	Fields      PropertyFields `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// Asking returns the asking price, or 0 when the field is absent.
func (p Property) Asking() float64 { return valueOrZero(p.Fields.AskingPrice) }

// ARV returns the after-repair value estimate, or 0 when absent.
func (p Property) ARV() float64 { return valueOrZero(p.Fields.ARVEstimate) }

// Repairs returns the repair estimate, or 0 when absent.
func (p Property) Repairs() float64 { return valueOrZero(p.Fields.RepairEstimate) }

// ContactID returns the linked contact, if any.
func (p Property) ContactID() string { return firstLink(p.Fields.Contact) }

type ContactFields struct {
	Name                   string        `json:"Name"`
	Email                  string        `json:"Email,omitempty"`
	PhoneNumber            string        `json:"Phone Number,omitempty"`
	ContactType            ContactType   `json:"Contact Type"`
	Temperature            Temperature   `json:"Temperature"`
	PreferredContactMethod ContactMethod `json:"Preferred Contact Method,omitempty"`
	LastContactDate        string        `json:"Last Contact Date,omitempty"`
	NextFollowupDate       string        `json:"Next Follow-up Date,omitempty"`
}

type Contact struct {
	ID          string        `json:"id"`
	Fields      ContactFields `json:"fields"`
	CreatedTime string        `json:"createdTime,omitempty"`
}

// ActivityFields mirrors the Activities table. The "(from ...)" columns are
// lookups computed by the store; they are read for display and never written.
type ActivityFields struct {
	NextAction       string         `json:"Next Action"`
	ActivityType     ActivityType   `json:"Activity Type"`
	Date             string         `json:"Date,omitempty"`
	Notes            string         `json:"Notes,omitempty"`
	FollowupRequired bool           `json:"Follow-up Required"`
	Status           ActivityStatus `json:"Status,omitempty"`
	Contact          []string       `json:"Contact,omitempty"`
	Property         []string       `json:"Property,omitempty"`
	ContactName      []string       `json:"Name (from Contact),omitempty"`
	PropertyAddress  []string       `json:"Address (from Property),omitempty"`
}

type Activity struct {
	ID          string         `json:"id"`
	Fields      ActivityFields `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// IsCompleted reports whether the activity has left the implicit open state.
func (a Activity) IsCompleted() bool { return a.Fields.Status == StatusCompleted }

// ContactName returns the first looked-up contact name, or "".
func (a Activity) ContactName() string { return firstLink(a.Fields.ContactName) }

// PropertyAddress returns the first looked-up property address, or "".
func (a Activity) PropertyAddress() string { return firstLink(a.Fields.PropertyAddress) }

// completionPatch is the fixed field patch sent when completing an activity.
// It is a separate type so that no other column can ride along with the update.
type completionPatch struct {
	Status           ActivityStatus `json:"Status"`
	FollowupRequired bool           `json:"Follow-up Required"`
}

// CompletionPatch returns {Status: "Completed", Follow-up Required: false}.
func CompletionPatch() any {
	return completionPatch{Status: StatusCompleted, FollowupRequired: false}
}

// Link wraps a single identifier in the store's link-field convention.
func Link(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

func firstLink(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Snapshot is one consistent read of all three tables.
type Snapshot struct {
	Properties []Property `json:"properties"`
	Contacts   []Contact  `json:"contacts"`
	Activities []Activity `json:"activities"`
}
