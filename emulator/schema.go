// ABOUTME: Table schema the emulator enforces on writes
// ABOUTME: Single-select options and lookup columns derived from linked records
package emulator

import (
	"github.com/harperreed/reicrm/models"
)

// Lookup is a read-only column filled from the first linked record.
type Lookup struct {
	Column    string
	LinkField string
	Table     string
	Field     string
}

type TableSchema struct {
	Selects map[string][]string
	Lookups []Lookup
}

// Schema maps table names to their schema. Tables not present are unknown.
type Schema map[string]TableSchema

// DefaultSchema mirrors the CRM base: the three tables, their select
// options, and the activity lookup columns.
func DefaultSchema() Schema {
	return Schema{
		models.TableProperties: {
			Selects: map[string][]string{
				"Property Type": stringsOf(models.PropertyTypes),
				"Deal Stage":    stringsOf(models.DealStages),
			},
		},
		models.TableContacts: {
			Selects: map[string][]string{
				"Contact Type": stringsOf(models.ContactTypes),
				"Temperature":  stringsOf(models.Temperatures),
			},
		},
		models.TableActivities: {
			Selects: map[string][]string{
				"Activity Type": stringsOf(models.ActivityTypes),
				"Status":        {string(models.StatusPending), string(models.StatusCompleted)},
			},
			Lookups: []Lookup{
				{Column: "Name (from Contact)", LinkField: "Contact", Table: models.TableContacts, Field: "Name"},
				{Column: "Address (from Property)", LinkField: "Property", Table: models.TableProperties, Field: "Address"},
			},
		},
	}
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// invalidOption returns the first select value in fields that is not one of
// the column's options. Blank values are allowed.
func (s TableSchema) invalidOption(fields map[string]any) (string, bool) {
	for column, options := range s.Selects {
		raw, ok := fields[column]
		if !ok || raw == nil {
			continue
		}
		value, isString := raw.(string)
		if !isString {
			return column, true
		}
		if value == "" {
			continue
		}
		found := false
		for _, opt := range options {
			if opt == value {
				found = true
				break
			}
		}
		if !found {
			return value, true
		}
	}
	return "", false
}
