// ABOUTME: Gateway request and response payloads shared by server, client and tools
// ABOUTME: Maps form input onto store field structs, omitting blank values
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BlankableNumber is a form number that may be left blank. It decodes a JSON
// number, a numeric string, "" or null; blank stays blank rather than 0.
type BlankableNumber struct {
	value *float64
}

// Number returns a non-blank BlankableNumber.
func Number(v float64) BlankableNumber {
	return BlankableNumber{value: &v}
}

// ParseBlankableNumber parses text input; whitespace-only text is blank.
func ParseBlankableNumber(s string) (BlankableNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BlankableNumber{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return BlankableNumber{}, fmt.Errorf("invalid number %q", s)
	}
	return Number(f), nil
}

func (n BlankableNumber) IsBlank() bool { return n.value == nil }

// Ptr returns a copy of the value, or nil when blank.
func (n BlankableNumber) Ptr() *float64 {
	if n.value == nil {
		return nil
	}
	v := *n.value
	return &v
}

func (n *BlankableNumber) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		n.value = nil
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseBlankableNumber(s)
		if err != nil {
			return err
		}
		*n = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid number %s", raw)
	}
	n.value = &f
	return nil
}

func (n BlankableNumber) MarshalJSON() ([]byte, error) {
	if n.value == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(*n.value)
}

// PropertyInput is the property entry form payload.
type PropertyInput struct {
	Address        string          `json:"address"`
	AskingPrice    BlankableNumber `json:"askingPrice"`
	PropertyType   PropertyType    `json:"propertyType"`
	DealStage      DealStage       `json:"dealStage"`
	ARVEstimate    BlankableNumber `json:"arvEstimate"`
	RepairEstimate BlankableNumber `json:"repairEstimate"`
	Notes          string          `json:"notes"`
	ContactName    string          `json:"contactName"`
	ContactEmail   string          `json:"contactEmail"`
	ContactPhone   string          `json:"contactPhone"`
	ContactType    ContactType     `json:"contactType"`
}

// PropertyFields builds the store write for this input. Blank numbers and
// blank notes are omitted; type and stage are always sent.
func (in PropertyInput) PropertyFields(contactID string) PropertyFields {
	return PropertyFields{
		Address:        in.Address,
		AskingPrice:    in.AskingPrice.Ptr(),
		PropertyType:   in.PropertyType,
		DealStage:      in.DealStage,
		ARVEstimate:    in.ARVEstimate.Ptr(),
		RepairEstimate: in.RepairEstimate.Ptr(),
		Notes:          in.Notes,
		Contact:        Link(contactID),
	}
}

// NewContactFields builds the contact created when a property names a contact
// that does not exist yet. New contacts always start Warm.
func (in PropertyInput) NewContactFields() ContactFields {
	contactType := in.ContactType
	if contactType == "" {
		contactType = ContactSeller
	}
	method := MethodPhone
	if in.ContactEmail != "" {
		method = MethodEmail
	}
	return ContactFields{
		Name:                   in.ContactName,
		Email:                  in.ContactEmail,
		PhoneNumber:            in.ContactPhone,
		ContactType:            contactType,
		Temperature:            TemperatureWarm,
		PreferredContactMethod: method,
	}
}

// ActivityInput is the activity form payload. DateTime is already combined
// from the form's separate date and time inputs.
type ActivityInput struct {
	NextAction       string       `json:"nextAction"`
	ActivityType     ActivityType `json:"activityType"`
	DateTime         *string      `json:"dateTime"`
	Notes            string       `json:"notes"`
	FollowupRequired bool         `json:"followupRequired"`
	ContactID        string       `json:"contactId"`
	PropertyID       string       `json:"propertyId"`
}

// ActivityFields builds the store write. New activities are written Pending.
func (in ActivityInput) ActivityFields() ActivityFields {
	fields := ActivityFields{
		NextAction:       in.NextAction,
		ActivityType:     in.ActivityType,
		Notes:            in.Notes,
		FollowupRequired: in.FollowupRequired,
		Status:           StatusPending,
		Contact:          Link(in.ContactID),
		Property:         Link(in.PropertyID),
	}
	if in.DateTime != nil {
		fields.Date = *in.DateTime
	}
	return fields
}

type CompleteActivityInput struct {
	ActivityID string `json:"activityId"`
}

// BulkCreateInput carries CSV rows keyed by template header labels.
type BulkCreateInput struct {
	Data []map[string]string `json:"data"`
}

type BulkResult struct {
	Success    bool     `json:"success"`
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

type PropertyResult struct {
	Success  bool     `json:"success"`
	Property Property `json:"property"`
	Message  string   `json:"message"`
}

type ActivityResult struct {
	Success  bool     `json:"success"`
	Activity Activity `json:"activity"`
	Message  string   `json:"message"`
}

// ErrorBody is the gateway's failure response.
type ErrorBody struct {
	Error string `json:"error"`
}
