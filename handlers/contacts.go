// ABOUTME: Contact gateway handlers
// ABOUTME: Lists the Contacts table in store order
package handlers

import (
	"context"

	charmlog "github.com/charmbracelet/log"

	"github.com/harperreed/reicrm/airtable"
	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/models"
)

type ContactHandlers struct {
	store  RecordStore
	logger *charmlog.Logger
}

func NewContactHandlers(store RecordStore, logger *charmlog.Logger) *ContactHandlers {
	if logger == nil {
		logger = logging.L
	}
	return &ContactHandlers{store: store, logger: logger.With("resource", "contacts")}
}

func (h *ContactHandlers) List(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := h.store.List(ctx, models.TableContacts, airtable.ListQuery{}, &contacts); err != nil {
		h.logger.Error("error fetching contacts", "err", err)
		return nil, unavailable("Failed to fetch contacts", err)
	}
	return contacts, nil
}
