// ABOUTME: Wires the per-resource handlers over one record store
// ABOUTME: Shared by the HTTP router, the MCP server and the CLI
package handlers

import (
	charmlog "github.com/charmbracelet/log"
)

type Gateway struct {
	Properties *PropertyHandlers
	Contacts   *ContactHandlers
	Activities *ActivityHandlers
	Dashboard  *DashboardHandlers
}

// NewGateway builds every handler over store. strict selects the contact
// resolver's failure policy.
func NewGateway(store RecordStore, strict bool, logger *charmlog.Logger) *Gateway {
	resolver := NewContactResolver(store, strict, logger)
	g := &Gateway{
		Properties: NewPropertyHandlers(store, resolver, logger),
		Contacts:   NewContactHandlers(store, logger),
		Activities: NewActivityHandlers(store, logger),
	}
	g.Dashboard = NewDashboardHandlers(g.Properties, g.Contacts, g.Activities)
	return g
}

// MCPTools exposes the gateway as MCP tools.
func (g *Gateway) MCPTools() *MCPTools {
	return NewMCPTools(g.Properties, g.Contacts, g.Activities, g.Dashboard)
}
