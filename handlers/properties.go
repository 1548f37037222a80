// ABOUTME: Property gateway handlers
// ABOUTME: Lists properties and creates them singly or in bulk, resolving the named contact first
package handlers

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/harperreed/reicrm/airtable"
	"github.com/harperreed/reicrm/ingest"
	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/models"
)

type PropertyHandlers struct {
	store    RecordStore
	resolver *ContactResolver
	logger   *charmlog.Logger
}

func NewPropertyHandlers(store RecordStore, resolver *ContactResolver, logger *charmlog.Logger) *PropertyHandlers {
	if logger == nil {
		logger = logging.L
	}
	return &PropertyHandlers{store: store, resolver: resolver, logger: logger.With("resource", "properties")}
}

func (h *PropertyHandlers) List(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	if err := h.store.List(ctx, models.TableProperties, airtable.ListQuery{}, &properties); err != nil {
		h.logger.Error("error fetching properties", "err", err)
		return nil, unavailable("Failed to fetch properties", err)
	}
	return properties, nil
}

// Create resolves the contact named on the entry, then writes the property.
// The two writes are not atomic: a contact created here stays even if the
// property write fails.
func (h *PropertyHandlers) Create(ctx context.Context, in models.PropertyInput) (models.PropertyResult, error) {
	contactID, err := h.resolver.Resolve(ctx, in)
	if err != nil {
		h.logger.Error("error creating property", "address", in.Address, "err", err)
		return models.PropertyResult{}, rejected("Failed to create property", err)
	}

	var created models.Property
	if err := h.store.Create(ctx, models.TableProperties, in.PropertyFields(contactID), &created); err != nil {
		h.logger.Error("error creating property", "address", in.Address, "err", err)
		return models.PropertyResult{}, rejected("Failed to create property", err)
	}

	h.logger.Info("created property", "id", created.ID, "address", created.Fields.Address, "contact", contactID)
	return models.PropertyResult{
		Success:  true,
		Property: created,
		Message:  "Property created successfully",
	}, nil
}

// BulkCreate creates one property per row, in order, through the same path
// as Create. A failed row is recorded and the next row is attempted.
func (h *PropertyHandlers) BulkCreate(ctx context.Context, in models.BulkCreateInput) models.BulkResult {
	result := models.BulkResult{Total: len(in.Data), Errors: []string{}}

	for i, data := range in.Data {
		rowNum := i + 1
		input, err := ingest.Row(data).PropertyInput()
		if err == nil {
			_, err = h.Create(ctx, input)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowNum, err.Error()))
			continue
		}
		result.Successful++
	}

	result.Success = result.Failed == 0
	h.logger.Info("bulk create finished", "total", result.Total, "successful", result.Successful, "failed", result.Failed)
	return result
}
