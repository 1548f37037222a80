// ABOUTME: Activity gateway handlers
// ABOUTME: Lists, creates and completes follow-up activities
package handlers

import (
	"context"

	charmlog "github.com/charmbracelet/log"

	"github.com/harperreed/reicrm/airtable"
	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/models"
)

type ActivityHandlers struct {
	store  RecordStore
	logger *charmlog.Logger
}

func NewActivityHandlers(store RecordStore, logger *charmlog.Logger) *ActivityHandlers {
	if logger == nil {
		logger = logging.L
	}
	return &ActivityHandlers{store: store, logger: logger.With("resource", "activities")}
}

func (h *ActivityHandlers) List(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := h.store.List(ctx, models.TableActivities, airtable.ListQuery{}, &activities); err != nil {
		h.logger.Error("error fetching activities", "err", err)
		return nil, unavailable("Failed to fetch activities", err)
	}
	return activities, nil
}

// Create writes one activity. New activities always start Pending; links are
// only written for the ids that were given.
func (h *ActivityHandlers) Create(ctx context.Context, in models.ActivityInput) (models.ActivityResult, error) {
	var created models.Activity
	if err := h.store.Create(ctx, models.TableActivities, in.ActivityFields(), &created); err != nil {
		h.logger.Error("error creating activity", "err", err)
		return models.ActivityResult{}, rejected("Failed to create activity", err)
	}

	h.logger.Info("created activity", "id", created.ID, "next_action", created.Fields.NextAction)
	return models.ActivityResult{
		Success:  true,
		Activity: created,
		Message:  "Activity created successfully",
	}, nil
}

// Complete marks an activity done and clears its follow-up flag. No other
// column is touched.
func (h *ActivityHandlers) Complete(ctx context.Context, in models.CompleteActivityInput) (models.ActivityResult, error) {
	if in.ActivityID == "" {
		return models.ActivityResult{}, validationError("Activity ID is required")
	}

	var updated models.Activity
	if err := h.store.Update(ctx, models.TableActivities, in.ActivityID, models.CompletionPatch(), &updated); err != nil {
		h.logger.Error("error completing activity", "id", in.ActivityID, "err", err)
		return models.ActivityResult{}, rejected("Failed to complete activity", err)
	}

	return models.ActivityResult{
		Success:  true,
		Activity: updated,
		Message:  "Activity marked as completed",
	}, nil
}
