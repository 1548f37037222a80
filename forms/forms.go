// ABOUTME: Entry form controllers for properties, activities and CSV import
// ABOUTME: Hold raw input, validate on submit, and turn gateway replies into banners
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/reicrm/client"
	"github.com/harperreed/reicrm/ingest"
	"github.com/harperreed/reicrm/models"
)

const networkErrorMessage = "Network error. Please try again."

// Banner is the one-line outcome shown after a submit.
type Banner struct {
	Success bool
	Message string
}

// InputError is a form field that failed validation. Error is the lowercase
// Go form; Banner is the text shown to the user.
type InputError struct {
	Field   string
	Problem string
}

func (e *InputError) Error() string {
	return strings.ToLower(e.Field) + " " + e.Problem
}

func (e *InputError) Banner() string {
	return e.Field + " " + e.Problem
}

type PropertySubmitter interface {
	CreateProperty(ctx context.Context, in models.PropertyInput) (models.PropertyResult, error)
}

type ActivitySubmitter interface {
	CreateActivity(ctx context.Context, in models.ActivityInput) (models.ActivityResult, error)
}

// OptionLister supplies the records an activity can be linked to.
type OptionLister interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
	ListProperties(ctx context.Context) ([]models.Property, error)
}

type BulkSubmitter interface {
	BulkCreateProperties(ctx context.Context, rows []map[string]string) (models.BulkResult, error)
}

// PropertyForm is the manual property entry form. Numeric fields hold the
// text as typed; blank means "not provided".
type PropertyForm struct {
	Address        string
	AskingPrice    string
	PropertyType   models.PropertyType
	DealStage      models.DealStage
	ARVEstimate    string
	RepairEstimate string
	Notes          string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	ContactType    models.ContactType
}

func NewPropertyForm() *PropertyForm {
	f := &PropertyForm{}
	f.Reset()
	return f
}

// Reset restores the empty form with its default selections.
func (f *PropertyForm) Reset() {
	*f = PropertyForm{
		PropertyType: models.PropertySingleFamily,
		DealStage:    models.StageNewLead,
		ContactType:  models.ContactSeller,
	}
}

// Input validates the form and builds the gateway payload.
func (f *PropertyForm) Input() (models.PropertyInput, error) {
	if strings.TrimSpace(f.Address) == "" {
		return models.PropertyInput{}, &InputError{Field: "Address", Problem: "is required"}
	}

	in := models.PropertyInput{
		Address:      f.Address,
		PropertyType: f.PropertyType,
		DealStage:    f.DealStage,
		Notes:        f.Notes,
		ContactName:  f.ContactName,
		ContactEmail: f.ContactEmail,
		ContactPhone: f.ContactPhone,
		ContactType:  f.ContactType,
	}

	var err error
	if in.AskingPrice, err = parseNumber("Asking Price", f.AskingPrice); err != nil {
		return models.PropertyInput{}, err
	}
	if in.ARVEstimate, err = parseNumber("ARV Estimate", f.ARVEstimate); err != nil {
		return models.PropertyInput{}, err
	}
	if in.RepairEstimate, err = parseNumber("Repair Estimate", f.RepairEstimate); err != nil {
		return models.PropertyInput{}, err
	}
	return in, nil
}

// Submit sends the form. On success the form is reset; on failure the input
// is kept so the user can correct and resubmit.
func (f *PropertyForm) Submit(ctx context.Context, s PropertySubmitter) Banner {
	in, err := f.Input()
	if err != nil {
		return InputBanner(err)
	}

	if _, err := s.CreateProperty(ctx, in); err != nil {
		return failureBanner(err, "Failed to create property")
	}

	f.Reset()
	return Banner{Success: true, Message: "Property created successfully!"}
}

// ActivityForm is the activity entry form. Date and Time are the separate
// date (YYYY-MM-DD) and time (HH:MM) inputs.
type ActivityForm struct {
	NextAction       string
	ActivityType     models.ActivityType
	Date             string
	Time             string
	Notes            string
	FollowupRequired bool
	ContactID        string
	PropertyID       string

	// Options survive Reset; they are loaded once per form.
	Options ActivityOptions
}

// ActivityOptions are the existing records offered for linking.
type ActivityOptions struct {
	Contacts   []models.Contact
	Properties []models.Property
}

func NewActivityForm() *ActivityForm {
	f := &ActivityForm{}
	f.Reset()
	return f
}

func (f *ActivityForm) Reset() {
	*f = ActivityForm{
		ActivityType:     models.ActivityCall,
		FollowupRequired: true,
		Options:          f.Options,
	}
}

// LoadOptions fetches contacts and properties concurrently. On any failure
// the options are left empty and the error is returned.
func (f *ActivityForm) LoadOptions(ctx context.Context, l OptionLister) error {
	var opts ActivityOptions
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		opts.Contacts, err = l.ListContacts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		opts.Properties, err = l.ListProperties(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		f.Options = ActivityOptions{}
		return fmt.Errorf("failed to load activity options: %w", err)
	}
	f.Options = opts
	return nil
}

// CheckLinks reports a selected contact or property that is not among the
// loaded options.
func (f *ActivityForm) CheckLinks() error {
	if f.ContactID != "" && !hasID(f.Options.Contacts, f.ContactID, func(c models.Contact) string { return c.ID }) {
		return &InputError{Field: "Contact", Problem: fmt.Sprintf("%q does not exist", f.ContactID)}
	}
	if f.PropertyID != "" && !hasID(f.Options.Properties, f.PropertyID, func(p models.Property) string { return p.ID }) {
		return &InputError{Field: "Property", Problem: fmt.Sprintf("%q does not exist", f.PropertyID)}
	}
	return nil
}

func hasID[T any](items []T, id string, idOf func(T) string) bool {
	for _, item := range items {
		if idOf(item) == id {
			return true
		}
	}
	return false
}

// DateTime combines the date and time inputs. A date without a time is
// pinned to noon UTC; no date means no date-time.
func (f *ActivityForm) DateTime() *string {
	if f.Date == "" {
		return nil
	}
	var combined string
	if f.Time != "" {
		combined = fmt.Sprintf("%sT%s:00.000Z", f.Date, f.Time)
	} else {
		combined = fmt.Sprintf("%sT12:00:00.000Z", f.Date)
	}
	return &combined
}

func (f *ActivityForm) Input() (models.ActivityInput, error) {
	if strings.TrimSpace(f.NextAction) == "" {
		return models.ActivityInput{}, &InputError{Field: "Next Action", Problem: "is required"}
	}
	return models.ActivityInput{
		NextAction:       f.NextAction,
		ActivityType:     f.ActivityType,
		DateTime:         f.DateTime(),
		Notes:            f.Notes,
		FollowupRequired: f.FollowupRequired,
		ContactID:        f.ContactID,
		PropertyID:       f.PropertyID,
	}, nil
}

func (f *ActivityForm) Submit(ctx context.Context, s ActivitySubmitter) Banner {
	in, err := f.Input()
	if err != nil {
		return InputBanner(err)
	}

	if _, err := s.CreateActivity(ctx, in); err != nil {
		return failureBanner(err, "Failed to create activity")
	}

	f.Reset()
	return Banner{Success: true, Message: "Activity created successfully!"}
}

// ImportCSV parses text and submits every row in one bulk call. When the
// file cannot be used or the call fails, a single synthetic result marks
// every row failed.
func ImportCSV(ctx context.Context, s BulkSubmitter, text string) models.BulkResult {
	rows := ingest.Parse(text)

	if _, err := ingest.CheckHeaders(ingest.Headers(text)); err != nil {
		return failedImport(len(rows), err.Error())
	}

	result, err := s.BulkCreateProperties(ctx, ingest.Maps(rows))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return failedImport(len(rows), apiErr.Message)
		}
		return failedImport(len(rows), "Network error occurred")
	}
	return result
}

func failedImport(total int, message string) models.BulkResult {
	return models.BulkResult{
		Success:    false,
		Total:      total,
		Successful: 0,
		Failed:     total,
		Errors:     []string{message},
	}
}

// InputBanner turns a validation error into the banner shown for it.
func InputBanner(err error) Banner {
	var inErr *InputError
	if errors.As(err, &inErr) {
		return Banner{Success: false, Message: inErr.Banner()}
	}
	return Banner{Success: false, Message: err.Error()}
}

func failureBanner(err error, fallback string) Banner {
	if errors.Is(err, client.ErrNetwork) {
		return Banner{Success: false, Message: networkErrorMessage}
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Banner{Success: false, Message: apiErr.Message}
	}
	return Banner{Success: false, Message: fallback}
}

func parseNumber(label, text string) (models.BlankableNumber, error) {
	n, err := models.ParseBlankableNumber(text)
	if err != nil {
		return models.BlankableNumber{}, &InputError{Field: label, Problem: "must be a number"}
	}
	return n, nil
}
