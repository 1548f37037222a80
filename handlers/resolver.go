// ABOUTME: Find-or-create of the contact named on a property entry
// ABOUTME: Exact-name lookup first, then a new Warm contact when nothing matches
package handlers

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/harperreed/reicrm/airtable"
	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/models"
)

type ContactResolver struct {
	store  RecordStore
	strict bool
	logger *charmlog.Logger
}

// NewContactResolver builds a resolver. With strict set, a failed lookup or
// contact create aborts the property create; otherwise the failure is logged
// and the property goes ahead without a contact link.
func NewContactResolver(store RecordStore, strict bool, logger *charmlog.Logger) *ContactResolver {
	if logger == nil {
		logger = logging.L
	}
	return &ContactResolver{store: store, strict: strict, logger: logger.With("component", "resolver")}
}

// Resolve returns the id of the contact to link, or "" for no link.
func (r *ContactResolver) Resolve(ctx context.Context, in models.PropertyInput) (string, error) {
	if in.ContactName == "" {
		return "", nil
	}

	var matches []models.Contact
	err := r.store.List(ctx, models.TableContacts, airtable.ListQuery{
		FilterByFormula: airtable.EqualsFormula("Name", in.ContactName),
	}, &matches)
	if err != nil {
		if r.strict {
			return "", linkingAborted("Failed to look up contact", fmt.Errorf("failed to look up contact %q: %w", in.ContactName, err))
		}
		r.logger.Warn("contact lookup failed, creating a new contact", "name", in.ContactName, "err", err)
		matches = nil
	}

	if len(matches) > 0 {
		return matches[0].ID, nil
	}

	var created models.Contact
	if err := r.store.Create(ctx, models.TableContacts, in.NewContactFields(), &created); err != nil {
		if r.strict {
			return "", linkingAborted("Failed to create contact", fmt.Errorf("failed to create contact %q: %w", in.ContactName, err))
		}
		r.logger.Warn("contact create failed, property will be unlinked", "name", in.ContactName, "err", err)
		return "", nil
	}

	r.logger.Info("created contact", "id", created.ID, "name", created.Fields.Name)
	return created.ID, nil
}

// linkingAborted reports a strict-mode resolver failure. It is always
// upstream-rejected, transport failures included, and keeps the store's
// message when there is one.
func linkingAborted(fallback string, err error) *Error {
	gwErr := rejected(fallback, err)
	if gwErr.Kind == KindUpstreamUnavailable {
		return &Error{Kind: KindUpstreamRejected, Message: fallback, Err: err}
	}
	return gwErr
}
