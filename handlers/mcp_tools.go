// ABOUTME: MCP tool adapters over the gateway operations
// ABOUTME: Registers list, create, complete and dashboard tools on an MCP server
package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/reicrm/models"
	"github.com/harperreed/reicrm/viz"
)

type MCPTools struct {
	properties *PropertyHandlers
	contacts   *ContactHandlers
	activities *ActivityHandlers
	dashboard  *DashboardHandlers
}

func NewMCPTools(properties *PropertyHandlers, contacts *ContactHandlers, activities *ActivityHandlers, dashboard *DashboardHandlers) *MCPTools {
	return &MCPTools{properties: properties, contacts: contacts, activities: activities, dashboard: dashboard}
}

// Register adds every tool to server.
func (t *MCPTools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_properties",
		Description: "List all properties in the CRM in store order",
	}, t.ListProperties)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List all contacts in the CRM in store order",
	}, t.ListContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List all follow-up activities in the CRM in store order",
	}, t.ListActivities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_property",
		Description: "Create a property; the named contact is reused if one with that exact name exists, otherwise created",
	}, t.CreateProperty)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_activity",
		Description: "Create a follow-up activity, optionally linked to a contact and a property",
	}, t.CreateActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_activity",
		Description: "Mark an activity completed and clear its follow-up flag",
	}, t.CompleteActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard_stats",
		Description: "Portfolio statistics: totals, active deals, portfolio value, potential profit, hot contacts and overdue activities",
	}, t.DashboardStats)
}

type EmptyInput struct{}

type PropertiesOutput struct {
	Properties []models.Property `json:"properties"`
}

type ContactsOutput struct {
	Contacts []models.Contact `json:"contacts"`
}

type ActivitiesOutput struct {
	Activities []models.Activity `json:"activities"`
}

func (t *MCPTools) ListProperties(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, PropertiesOutput, error) {
	properties, err := t.properties.List(ctx)
	if err != nil {
		return nil, PropertiesOutput{}, err
	}
	return nil, PropertiesOutput{Properties: properties}, nil
}

func (t *MCPTools) ListContacts(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ContactsOutput, error) {
	contacts, err := t.contacts.List(ctx)
	if err != nil {
		return nil, ContactsOutput{}, err
	}
	return nil, ContactsOutput{Contacts: contacts}, nil
}

func (t *MCPTools) ListActivities(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ActivitiesOutput, error) {
	activities, err := t.activities.List(ctx)
	if err != nil {
		return nil, ActivitiesOutput{}, err
	}
	return nil, ActivitiesOutput{Activities: activities}, nil
}

type CreatePropertyInput struct {
	Address        string   `json:"address" jsonschema:"Street address (required)"`
	AskingPrice    *float64 `json:"asking_price,omitempty" jsonschema:"Asking price in dollars; omit when unknown"`
	PropertyType   string   `json:"property_type,omitempty" jsonschema:"Single Family, Duplex, Triplex, Apartment or Commercial (default Single Family)"`
	DealStage      string   `json:"deal_stage,omitempty" jsonschema:"Deal stage (default New Lead)"`
	ARVEstimate    *float64 `json:"arv_estimate,omitempty" jsonschema:"After-repair value estimate in dollars"`
	RepairEstimate *float64 `json:"repair_estimate,omitempty" jsonschema:"Repair estimate in dollars"`
	Notes          string   `json:"notes,omitempty" jsonschema:"Free-form notes"`
	ContactName    string   `json:"contact_name,omitempty" jsonschema:"Contact name; matched exactly against existing contacts"`
	ContactEmail   string   `json:"contact_email,omitempty" jsonschema:"Email used if a new contact is created"`
	ContactPhone   string   `json:"contact_phone,omitempty" jsonschema:"Phone used if a new contact is created"`
	ContactType    string   `json:"contact_type,omitempty" jsonschema:"Seller, Buyer, Agent, Wholesaler or Other (default Seller)"`
}

func (in CreatePropertyInput) toInput() models.PropertyInput {
	out := models.PropertyInput{
		Address:      in.Address,
		PropertyType: models.PropertyType(in.PropertyType),
		DealStage:    models.DealStage(in.DealStage),
		Notes:        in.Notes,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		ContactType:  models.ContactType(in.ContactType),
	}
	if out.PropertyType == "" {
		out.PropertyType = models.PropertySingleFamily
	}
	if out.DealStage == "" {
		out.DealStage = models.StageNewLead
	}
	if in.AskingPrice != nil {
		out.AskingPrice = models.Number(*in.AskingPrice)
	}
	if in.ARVEstimate != nil {
		out.ARVEstimate = models.Number(*in.ARVEstimate)
	}
	if in.RepairEstimate != nil {
		out.RepairEstimate = models.Number(*in.RepairEstimate)
	}
	return out
}

func (t *MCPTools) CreateProperty(ctx context.Context, _ *mcp.CallToolRequest, input CreatePropertyInput) (*mcp.CallToolResult, models.PropertyResult, error) {
	if input.Address == "" {
		return nil, models.PropertyResult{}, validationError("Address is required")
	}
	result, err := t.properties.Create(ctx, input.toInput())
	if err != nil {
		return nil, models.PropertyResult{}, err
	}
	return nil, result, nil
}

type CreateActivityInput struct {
	NextAction       string `json:"next_action" jsonschema:"What needs to happen next (required)"`
	ActivityType     string `json:"activity_type,omitempty" jsonschema:"Call, Email, Text, Meeting, Site Visit, Offer or Other (default Call)"`
	DateTime         string `json:"date_time,omitempty" jsonschema:"Due date-time in ISO 8601 format"`
	Notes            string `json:"notes,omitempty" jsonschema:"Free-form notes"`
	FollowupRequired bool   `json:"followup_required,omitempty" jsonschema:"Whether a follow-up is required"`
	ContactID        string `json:"contact_id,omitempty" jsonschema:"Record id of the linked contact"`
	PropertyID       string `json:"property_id,omitempty" jsonschema:"Record id of the linked property"`
}

func (t *MCPTools) CreateActivity(ctx context.Context, _ *mcp.CallToolRequest, input CreateActivityInput) (*mcp.CallToolResult, models.ActivityResult, error) {
	if input.NextAction == "" {
		return nil, models.ActivityResult{}, validationError("Next Action is required")
	}
	in := models.ActivityInput{
		NextAction:       input.NextAction,
		ActivityType:     models.ActivityType(input.ActivityType),
		Notes:            input.Notes,
		FollowupRequired: input.FollowupRequired,
		ContactID:        input.ContactID,
		PropertyID:       input.PropertyID,
	}
	if in.ActivityType == "" {
		in.ActivityType = models.ActivityCall
	}
	if input.DateTime != "" {
		in.DateTime = &input.DateTime
	}

	result, err := t.activities.Create(ctx, in)
	if err != nil {
		return nil, models.ActivityResult{}, err
	}
	return nil, result, nil
}

type CompleteActivityInput struct {
	ActivityID string `json:"activity_id" jsonschema:"Record id of the activity to complete (required)"`
}

func (t *MCPTools) CompleteActivity(ctx context.Context, _ *mcp.CallToolRequest, input CompleteActivityInput) (*mcp.CallToolResult, models.ActivityResult, error) {
	result, err := t.activities.Complete(ctx, models.CompleteActivityInput{ActivityID: input.ActivityID})
	if err != nil {
		return nil, models.ActivityResult{}, err
	}
	return nil, result, nil
}

type DashboardOutput struct {
	Stats             viz.Stats         `json:"stats"`
	PortfolioDisplay  string            `json:"portfolio_display"`
	ProfitDisplay     string            `json:"profit_display"`
	HotContacts       []models.Contact  `json:"hot_contacts"`
	OverdueActivities []models.Activity `json:"overdue_activities"`
}

func (t *MCPTools) DashboardStats(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, DashboardOutput, error) {
	dash, err := t.dashboard.Dashboard(ctx)
	if err != nil {
		return nil, DashboardOutput{}, err
	}
	return nil, DashboardOutput{
		Stats:             dash.Stats,
		PortfolioDisplay:  viz.FormatThousands(dash.Stats.TotalPortfolioValue),
		ProfitDisplay:     viz.FormatThousands(dash.Stats.PotentialProfit),
		HotContacts:       dash.HotContacts,
		OverdueActivities: dash.OverdueActivities,
	}, nil
}
