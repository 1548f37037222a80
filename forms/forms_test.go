// ABOUTME: Tests for the entry forms
// ABOUTME: Validation, banners, option loading and CSV import
package forms

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/reicrm/client"
	"github.com/harperreed/reicrm/models"
)

type fakeGateway struct {
	err        error
	properties []models.PropertyInput
	activities []models.ActivityInput
	bulkRows   [][]map[string]string
	bulkResult models.BulkResult
	contacts   []models.Contact
	listed     []models.Property
	listErr    error
}

func (g *fakeGateway) ListContacts(context.Context) ([]models.Contact, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.contacts, nil
}

func (g *fakeGateway) ListProperties(context.Context) ([]models.Property, error) {
	return g.listed, nil
}

func (g *fakeGateway) CreateProperty(_ context.Context, in models.PropertyInput) (models.PropertyResult, error) {
	if g.err != nil {
		return models.PropertyResult{}, g.err
	}
	g.properties = append(g.properties, in)
	return models.PropertyResult{Success: true, Message: "Property created successfully"}, nil
}

func (g *fakeGateway) CreateActivity(_ context.Context, in models.ActivityInput) (models.ActivityResult, error) {
	if g.err != nil {
		return models.ActivityResult{}, g.err
	}
	g.activities = append(g.activities, in)
	return models.ActivityResult{Success: true}, nil
}

func (g *fakeGateway) BulkCreateProperties(_ context.Context, rows []map[string]string) (models.BulkResult, error) {
	if g.err != nil {
		return models.BulkResult{}, g.err
	}
	g.bulkRows = append(g.bulkRows, rows)
	return g.bulkResult, nil
}

func TestPropertyFormDefaults(t *testing.T) {
	f := NewPropertyForm()
	assert.Equal(t, models.PropertySingleFamily, f.PropertyType)
	assert.Equal(t, models.StageNewLead, f.DealStage)
	assert.Equal(t, models.ContactSeller, f.ContactType)
	assert.Empty(t, f.Address)
}

func TestPropertyFormSubmitSuccessResets(t *testing.T) {
	gw := &fakeGateway{}
	f := NewPropertyForm()
	f.Address = "123 Main St"
	f.AskingPrice = "150000"
	f.DealStage = models.StageAnalyzing

	banner := f.Submit(context.Background(), gw)

	assert.Equal(t, Banner{Success: true, Message: "Property created successfully!"}, banner)
	require.Len(t, gw.properties, 1)
	sent := gw.properties[0]
	assert.Equal(t, models.StageAnalyzing, sent.DealStage)
	assert.Equal(t, 150000.0, *sent.AskingPrice.Ptr())
	assert.True(t, sent.ARVEstimate.IsBlank())

	assert.Equal(t, *NewPropertyForm(), *f, "form is reset after success")
}

func TestPropertyFormValidatesOnlyOnSubmit(t *testing.T) {
	gw := &fakeGateway{}
	f := NewPropertyForm()
	f.AskingPrice = "abc"

	banner := f.Submit(context.Background(), gw)
	assert.False(t, banner.Success)
	assert.Equal(t, "Address is required", banner.Message)

	f.Address = "1 Elm St"
	banner = f.Submit(context.Background(), gw)
	assert.Equal(t, "Asking Price must be a number", banner.Message)
	assert.Empty(t, gw.properties)
}

func TestPropertyFormFailureBanners(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"gateway message", &client.APIError{StatusCode: 500, Message: "Invalid deal stage"}, "Invalid deal stage"},
		{"gateway without message", &client.APIError{StatusCode: 500}, "Failed to create property"},
		{"network", fmt.Errorf("%w: connection refused", client.ErrNetwork), "Network error. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewPropertyForm()
			f.Address = "1 Elm St"

			banner := f.Submit(context.Background(), &fakeGateway{err: tt.err})

			assert.False(t, banner.Success)
			assert.Equal(t, tt.want, banner.Message)
			assert.Equal(t, "1 Elm St", f.Address, "input is kept on failure")
		})
	}
}

func TestActivityFormDateTime(t *testing.T) {
	f := NewActivityForm()
	assert.Nil(t, f.DateTime())

	f.Date = "2026-03-10"
	require.NotNil(t, f.DateTime())
	assert.Equal(t, "2026-03-10T12:00:00.000Z", *f.DateTime())

	f.Time = "09:15"
	assert.Equal(t, "2026-03-10T09:15:00.000Z", *f.DateTime())

	f.Date = ""
	assert.Nil(t, f.DateTime(), "a time without a date is ignored")
}

func TestActivityFormSubmit(t *testing.T) {
	gw := &fakeGateway{}
	f := NewActivityForm()
	assert.True(t, f.FollowupRequired)
	assert.Equal(t, models.ActivityCall, f.ActivityType)

	banner := f.Submit(context.Background(), gw)
	assert.Equal(t, "Next Action is required", banner.Message)

	f.NextAction = "Call seller"
	f.Date = "2026-03-10"
	f.ContactID = "recC1"
	banner = f.Submit(context.Background(), gw)

	assert.Equal(t, Banner{Success: true, Message: "Activity created successfully!"}, banner)
	require.Len(t, gw.activities, 1)
	assert.Equal(t, "2026-03-10T12:00:00.000Z", *gw.activities[0].DateTime)
	assert.Equal(t, "recC1", gw.activities[0].ContactID)
	assert.Empty(t, f.NextAction)

	banner = (&ActivityForm{NextAction: "x"}).Submit(context.Background(), &fakeGateway{err: &client.APIError{StatusCode: 500}})
	assert.Equal(t, "Failed to create activity", banner.Message)
}

func TestActivityFormLoadOptions(t *testing.T) {
	gw := &fakeGateway{
		contacts: []models.Contact{{ID: "recC1", Fields: models.ContactFields{Name: "Jane Doe"}}},
		listed:   []models.Property{{ID: "recP1", Fields: models.PropertyFields{Address: "1 Elm St"}}},
	}
	f := NewActivityForm()

	require.NoError(t, f.LoadOptions(context.Background(), gw))
	require.Len(t, f.Options.Contacts, 1)
	require.Len(t, f.Options.Properties, 1)

	f.ContactID = "recC1"
	f.PropertyID = "recP1"
	assert.NoError(t, f.CheckLinks())

	f.NextAction = "Call seller"
	banner := f.Submit(context.Background(), gw)
	assert.True(t, banner.Success)
	assert.Len(t, f.Options.Contacts, 1, "options survive the reset after submit")
	assert.Empty(t, f.ContactID)
}

func TestActivityFormLoadOptionsFailure(t *testing.T) {
	f := NewActivityForm()
	f.Options.Contacts = []models.Contact{{ID: "recOld"}}

	err := f.LoadOptions(context.Background(), &fakeGateway{
		listErr: client.ErrNetwork,
		listed:  []models.Property{{ID: "recP1"}},
	})

	assert.ErrorIs(t, err, client.ErrNetwork)
	assert.Empty(t, f.Options.Contacts)
	assert.Empty(t, f.Options.Properties, "a partial load is discarded")
}

func TestActivityFormCheckLinks(t *testing.T) {
	f := NewActivityForm()
	f.Options.Contacts = []models.Contact{{ID: "recC1"}}
	assert.NoError(t, f.CheckLinks(), "no selection needs no options")

	f.PropertyID = "recP9"
	err := f.CheckLinks()
	require.Error(t, err)
	assert.Equal(t, `property "recP9" does not exist`, err.Error())
	assert.Equal(t, `Property "recP9" does not exist`, InputBanner(err).Message)

	f.PropertyID = ""
	f.ContactID = "recC2"
	assert.Equal(t, `Contact "recC2" does not exist`, InputBanner(f.CheckLinks()).Message)
}

func TestInputErrorsAreLowercase(t *testing.T) {
	_, err := NewPropertyForm().Input()
	assert.EqualError(t, err, "address is required")

	f := NewPropertyForm()
	f.Address = "1 Elm St"
	f.RepairEstimate = "lots"
	_, err = f.Input()
	assert.EqualError(t, err, "repair estimate must be a number")
	assert.Equal(t, "Repair Estimate must be a number", InputBanner(err).Message)

	_, err = NewActivityForm().Input()
	assert.EqualError(t, err, "next action is required")
}

func TestImportCSV(t *testing.T) {
	gw := &fakeGateway{bulkResult: models.BulkResult{Success: true, Total: 2, Successful: 2, Errors: []string{}}}

	result := ImportCSV(context.Background(), gw, "Address,Asking Price\n123 Main St,150000\n456 Oak Ave,200000\n")

	assert.True(t, result.Success)
	require.Len(t, gw.bulkRows, 1)
	assert.Equal(t, []map[string]string{
		{"Address": "123 Main St", "Asking Price": "150000"},
		{"Address": "456 Oak Ave", "Asking Price": "200000"},
	}, gw.bulkRows[0])
}

func TestImportCSVNetworkFailure(t *testing.T) {
	gw := &fakeGateway{err: client.ErrNetwork}

	result := ImportCSV(context.Background(), gw, "Address\nA\nB\nC\n")

	assert.Equal(t, models.BulkResult{
		Success:    false,
		Total:      3,
		Successful: 0,
		Failed:     3,
		Errors:     []string{"Network error occurred"},
	}, result)
}

func TestImportCSVMissingAddressColumn(t *testing.T) {
	gw := &fakeGateway{}

	result := ImportCSV(context.Background(), gw, "Street,Price\nA,1\n")

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, gw.bulkRows)
}
