// ABOUTME: Dashboard snapshot: the three list calls fired together
// ABOUTME: Any failed fetch fails the whole snapshot; partial data is never returned
package handlers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/reicrm/models"
	"github.com/harperreed/reicrm/viz"
)

type DashboardHandlers struct {
	properties *PropertyHandlers
	contacts   *ContactHandlers
	activities *ActivityHandlers
	now        func() time.Time
}

func NewDashboardHandlers(properties *PropertyHandlers, contacts *ContactHandlers, activities *ActivityHandlers) *DashboardHandlers {
	return &DashboardHandlers{
		properties: properties,
		contacts:   contacts,
		activities: activities,
		now:        time.Now,
	}
}

// Snapshot lists all three tables concurrently and waits for every call.
func (h *DashboardHandlers) Snapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		properties, err := h.properties.List(gctx)
		snap.Properties = properties
		return err
	})
	g.Go(func() error {
		contacts, err := h.contacts.List(gctx)
		snap.Contacts = contacts
		return err
	})
	g.Go(func() error {
		activities, err := h.activities.List(gctx)
		snap.Activities = activities
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// Dashboard takes a snapshot and computes the dashboard from it.
func (h *DashboardHandlers) Dashboard(ctx context.Context) (viz.Dashboard, error) {
	snap, err := h.Snapshot(ctx)
	if err != nil {
		return viz.Dashboard{}, err
	}
	return viz.BuildDashboard(snap, h.now()), nil
}
