// ABOUTME: Tests for property creation, contact resolution and bulk import
// ABOUTME: Runs the handlers against an in-memory record store
package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/reicrm/airtable"
	"github.com/harperreed/reicrm/models"
)

func janeInput() models.PropertyInput {
	return models.PropertyInput{
		Address:      "123 Main St",
		AskingPrice:  models.Number(150000),
		PropertyType: models.PropertySingleFamily,
		DealStage:    models.StageNewLead,
		ContactName:  "Jane Doe",
	}
}

func TestCreatePropertyReusesFirstMatchingContact(t *testing.T) {
	g := newGateway(t, false)
	first := g.store.seed(models.TableContacts, map[string]any{"Name": "Jane Doe"})
	g.store.seed(models.TableContacts, map[string]any{"Name": "Jane Doe"})
	g.store.seed(models.TableContacts, map[string]any{"Name": "John Roe"})

	result, err := g.properties.Create(context.Background(), janeInput())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Property created successfully", result.Message)
	assert.Equal(t, first, result.Property.ContactID())
	assert.Equal(t, 0, g.store.countCalls("POST", models.TableContacts), "no contact is created on a match")
	assert.Len(t, g.store.records(models.TableContacts), 3)
}

func TestCreatePropertyCreatesWarmContact(t *testing.T) {
	g := newGateway(t, false)

	in := janeInput()
	in.ContactName = "New Person"
	in.ContactEmail = "new@example.com"

	result, err := g.properties.Create(context.Background(), in)
	require.NoError(t, err)

	contacts := g.store.records(models.TableContacts)
	require.Len(t, contacts, 1)
	fields := contacts[0].Fields
	assert.Equal(t, "New Person", fields["Name"])
	assert.Equal(t, "new@example.com", fields["Email"])
	assert.Equal(t, "Warm", fields["Temperature"])
	assert.Equal(t, "Seller", fields["Contact Type"])
	assert.Equal(t, "Email", fields["Preferred Contact Method"])
	assert.NotContains(t, fields, "Phone Number")

	assert.Equal(t, contacts[0].ID, result.Property.ContactID())
}

func TestCreatePropertyWithoutContactName(t *testing.T) {
	g := newGateway(t, false)

	in := janeInput()
	in.ContactName = ""

	result, err := g.properties.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, result.Property.ContactID())
	assert.Equal(t, 0, g.store.countCalls("GET", models.TableContacts))
	assert.NotContains(t, g.store.records(models.TableProperties)[0].Fields, "Contact")
}

func TestCreatePropertyOmitsBlankNumbers(t *testing.T) {
	g := newGateway(t, false)

	in := models.PropertyInput{
		Address:      "9 Blank Rd",
		PropertyType: models.PropertyDuplex,
		DealStage:    models.StageAnalyzing,
		ARVEstimate:  models.Number(0),
	}
	_, err := g.properties.Create(context.Background(), in)
	require.NoError(t, err)

	fields := g.store.records(models.TableProperties)[0].Fields
	assert.NotContains(t, fields, "Asking Price")
	assert.NotContains(t, fields, "Repair Estimate")
	assert.NotContains(t, fields, "Notes")
	assert.Equal(t, 0.0, fields["ARV Estimate"], "an explicit zero is still written")
	assert.Equal(t, "Duplex", fields["Property Type"])
	assert.Equal(t, "Analyzing", fields["Deal Stage"])
}

func TestCreatePropertyContactCreateFailureLeavesPropertyUnlinked(t *testing.T) {
	g := newGateway(t, false)
	g.store.failCreate[models.TableContacts] = &airtable.APIError{StatusCode: 422, Message: "bad contact"}

	result, err := g.properties.Create(context.Background(), janeInput())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Property.ContactID())
	assert.Len(t, g.store.records(models.TableProperties), 1)
}

func TestCreatePropertyLookupFailureTreatedAsNoMatch(t *testing.T) {
	g := newGateway(t, false)
	g.store.seed(models.TableContacts, map[string]any{"Name": "Jane Doe"})
	g.store.failList[models.TableContacts] = errors.New("connection reset")

	result, err := g.properties.Create(context.Background(), janeInput())
	require.NoError(t, err)

	assert.Len(t, g.store.records(models.TableContacts), 2, "a duplicate contact is created")
	assert.NotEmpty(t, result.Property.ContactID())
}

func TestCreatePropertyStrictLinking(t *testing.T) {
	t.Run("create failure aborts", func(t *testing.T) {
		g := newGateway(t, true)
		g.store.failCreate[models.TableContacts] = &airtable.APIError{StatusCode: 422, Message: "Invalid contact type"}

		_, err := g.properties.Create(context.Background(), janeInput())
		require.Error(t, err)

		gwErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindUpstreamRejected, gwErr.Kind)
		assert.Equal(t, "Invalid contact type", gwErr.Message)
		assert.Empty(t, g.store.records(models.TableProperties))
	})

	t.Run("lookup failure aborts", func(t *testing.T) {
		g := newGateway(t, true)
		g.store.failList[models.TableContacts] = &airtable.APIError{StatusCode: 503}

		_, err := g.properties.Create(context.Background(), janeInput())
		require.Error(t, err)
		assert.Equal(t, 0, g.store.countCalls("POST", models.TableContacts))
		assert.Empty(t, g.store.records(models.TableProperties))
	})

	t.Run("transport failures abort as rejected", func(t *testing.T) {
		tests := []struct {
			name    string
			fail    func(*memStore, error)
			message string
		}{
			{"lookup", func(m *memStore, err error) { m.failList[models.TableContacts] = err }, "Failed to look up contact"},
			{"create", func(m *memStore, err error) { m.failCreate[models.TableContacts] = err }, "Failed to create contact"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				g := newGateway(t, true)
				cause := errors.New("dial tcp: connection refused")
				tt.fail(g.store, cause)

				_, err := g.properties.Create(context.Background(), janeInput())
				require.Error(t, err)

				gwErr, ok := AsError(err)
				require.True(t, ok)
				assert.Equal(t, KindUpstreamRejected, gwErr.Kind)
				assert.Equal(t, tt.message, gwErr.Message)
				assert.ErrorIs(t, err, cause)
				assert.Empty(t, g.store.records(models.TableProperties))
			})
		}
	})
}

func TestCreatePropertyForwardsStoreMessage(t *testing.T) {
	g := newGateway(t, false)
	g.store.failCreate[models.TableProperties] = &airtable.APIError{
		StatusCode: 422,
		Type:       "INVALID_VALUE_FOR_COLUMN",
		Message:    `Field "Deal Stage" cannot accept the provided value`,
	}

	_, err := g.properties.Create(context.Background(), janeInput())
	require.Error(t, err)

	gwErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamRejected, gwErr.Kind)
	assert.Equal(t, `Field "Deal Stage" cannot accept the provided value`, gwErr.Message)
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode())
}

func TestCreatePropertyFallbackMessage(t *testing.T) {
	g := newGateway(t, false)
	g.store.failCreate[models.TableProperties] = &airtable.APIError{StatusCode: 500}

	_, err := g.properties.Create(context.Background(), janeInput())
	require.Error(t, err)
	assert.Equal(t, "Failed to create property", err.Error())

	g.store.failCreate[models.TableProperties] = errors.New("dial tcp: refused")
	_, err = g.properties.Create(context.Background(), janeInput())
	require.Error(t, err)
	assert.Equal(t, "Failed to create property", err.Error())
}

func TestListPropertiesPreservesStoreOrder(t *testing.T) {
	g := newGateway(t, false)
	g.store.seed(models.TableProperties, map[string]any{"Address": "B"})
	g.store.seed(models.TableProperties, map[string]any{"Address": "A"})

	properties, err := g.properties.List(context.Background())
	require.NoError(t, err)
	require.Len(t, properties, 2)
	assert.Equal(t, "B", properties[0].Fields.Address)
	assert.Equal(t, "A", properties[1].Fields.Address)
}

func TestListFailureIsGeneric(t *testing.T) {
	g := newGateway(t, false)
	g.store.failList[models.TableProperties] = &airtable.APIError{StatusCode: 401, Message: "secret detail"}

	_, err := g.properties.List(context.Background())
	require.Error(t, err)

	gwErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamUnavailable, gwErr.Kind)
	assert.Equal(t, "Failed to fetch properties", gwErr.Message)
}

func TestBulkCreate(t *testing.T) {
	g := newGateway(t, false)

	result := g.properties.BulkCreate(context.Background(), models.BulkCreateInput{Data: []map[string]string{
		{"Address": "1 Elm St", "Asking Price": "100000", "Contact Name": "Jane Doe"},
		{"Address": "", "Asking Price": "5"},
		{"Address": "3 Oak Ave", "Deal Stage": "Negotiating", "Contact Name": "Jane Doe"},
	}})

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"row 2: Address is required"}, result.Errors)

	properties := g.store.records(models.TableProperties)
	require.Len(t, properties, 2)
	assert.Equal(t, "Single Family", properties[0].Fields["Property Type"])
	assert.Equal(t, "New Lead", properties[0].Fields["Deal Stage"])
	assert.Equal(t, "Negotiating", properties[1].Fields["Deal Stage"])
	assert.Len(t, g.store.records(models.TableContacts), 1, "the second row reuses the contact from the first")
}

func TestBulkCreateEmpty(t *testing.T) {
	g := newGateway(t, false)
	result := g.properties.BulkCreate(context.Background(), models.BulkCreateInput{})
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Errors)
}
