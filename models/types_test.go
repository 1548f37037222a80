// ABOUTME: Tests for CRM data models
// ABOUTME: Validates blank-number handling and the label-keyed field mapping
package models

import (
	"encoding/json"
	"testing"
)

func TestBlankableNumberDecoding(t *testing.T) {
	tests := []struct {
		input   string
		blank   bool
		value   float64
		wantErr bool
	}{
		{`""`, true, 0, false},
		{`null`, true, 0, false},
		{`"   "`, true, 0, false},
		{`150000`, false, 150000, false},
		{`"150000"`, false, 150000, false},
		{`0`, false, 0, false},
		{`"abc"`, false, 0, true},
	}

	for _, tt := range tests {
		var n BlankableNumber
		err := json.Unmarshal([]byte(tt.input), &n)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Unmarshal(%s) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
		}
		if n.IsBlank() != tt.blank {
			t.Errorf("Unmarshal(%s) blank = %v, want %v", tt.input, n.IsBlank(), tt.blank)
		}
		if !tt.blank && *n.Ptr() != tt.value {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, *n.Ptr(), tt.value)
		}
	}
}

func TestBlankAskingPriceIsOmittedFromWrite(t *testing.T) {
	var in PropertyInput
	payload := `{"address":"123 Main St","askingPrice":"","propertyType":"Duplex","dealStage":"New Lead","arvEstimate":0,"repairEstimate":""}`
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("failed to decode input: %v", err)
	}

	data, err := json.Marshal(in.PropertyFields(""))
	if err != nil {
		t.Fatalf("failed to encode fields: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("failed to decode wire fields: %v", err)
	}

	if _, ok := wire["Asking Price"]; ok {
		t.Error("blank Asking Price must not be sent")
	}
	if _, ok := wire["Repair Estimate"]; ok {
		t.Error("blank Repair Estimate must not be sent")
	}
	if wire["ARV Estimate"] != float64(0) {
		t.Errorf("explicit zero ARV must be sent, got %v", wire["ARV Estimate"])
	}
	if _, ok := wire["Notes"]; ok {
		t.Error("blank Notes must not be sent")
	}
	if _, ok := wire["Contact"]; ok {
		t.Error("Contact link must be absent without a contact")
	}
	if wire["Property Type"] != "Duplex" || wire["Deal Stage"] != "New Lead" {
		t.Errorf("enumerated fields must always be sent, got %v", wire)
	}
}

func TestNewContactFieldsDefaults(t *testing.T) {
	fields := PropertyInput{ContactName: "New Person", ContactEmail: "a@b.com"}.NewContactFields()
	if fields.Temperature != TemperatureWarm {
		t.Errorf("expected Warm, got %s", fields.Temperature)
	}
	if fields.PreferredContactMethod != MethodEmail {
		t.Errorf("expected Email method, got %s", fields.PreferredContactMethod)
	}
	if fields.ContactType != ContactSeller {
		t.Errorf("expected Seller default, got %s", fields.ContactType)
	}

	phoneOnly := PropertyInput{ContactName: "Phone Person", ContactType: ContactAgent}.NewContactFields()
	if phoneOnly.PreferredContactMethod != MethodPhone {
		t.Errorf("expected Phone method, got %s", phoneOnly.PreferredContactMethod)
	}
	if phoneOnly.ContactType != ContactAgent {
		t.Errorf("expected Agent, got %s", phoneOnly.ContactType)
	}
}

func TestActivityFields(t *testing.T) {
	date := "2026-01-02T12:00:00.000Z"
	fields := ActivityInput{
		NextAction:   "Call seller",
		ActivityType: ActivityCall,
		DateTime:     &date,
		ContactID:    "recC1",
	}.ActivityFields()

	if fields.Status != StatusPending {
		t.Errorf("expected Pending status, got %s", fields.Status)
	}
	if fields.Date != date {
		t.Errorf("expected date %s, got %s", date, fields.Date)
	}
	if len(fields.Contact) != 1 || fields.Contact[0] != "recC1" {
		t.Errorf("expected single contact link, got %v", fields.Contact)
	}
	if fields.Property != nil {
		t.Errorf("expected no property link, got %v", fields.Property)
	}

	data, _ := json.Marshal(fields)
	var wire map[string]any
	_ = json.Unmarshal(data, &wire)
	if wire["Follow-up Required"] != false {
		t.Errorf("Follow-up Required must always be sent, got %v", wire["Follow-up Required"])
	}
}

func TestCompletionPatch(t *testing.T) {
	data, err := json.Marshal(CompletionPatch())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"Status":"Completed","Follow-up Required":false}` {
		t.Errorf("unexpected patch: %s", data)
	}
}

func TestPropertyAccessors(t *testing.T) {
	price := 100000.0
	p := Property{Fields: PropertyFields{AskingPrice: &price, Contact: []string{"recX"}}}
	if p.Asking() != price || p.ARV() != 0 || p.Repairs() != 0 {
		t.Errorf("unexpected accessor values: %v %v %v", p.Asking(), p.ARV(), p.Repairs())
	}
	if p.ContactID() != "recX" {
		t.Errorf("expected recX, got %s", p.ContactID())
	}
}

func TestEnumValidation(t *testing.T) {
	if !StageUnderContract.IsValid() || DealStage("Sold").IsValid() {
		t.Error("deal stage validation mismatch")
	}
	if !StageDead.IsTerminal() || StageNegotiating.IsTerminal() {
		t.Error("terminal stage mismatch")
	}
	if !ActivitySiteVisit.IsValid() || !TemperatureHot.IsValid() || !ContactWholesaler.IsValid() || !PropertyTriplex.IsValid() {
		t.Error("expected enumerated values to be valid")
	}
}
