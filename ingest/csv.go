// ABOUTME: Naive CSV splitting for bulk property import
// ABOUTME: Splits on literal newlines and commas; quoted fields are not supported
package ingest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/harperreed/reicrm/models"
)

// Column labels of the import template.
const (
	ColAddress        = "Address"
	ColAskingPrice    = "Asking Price"
	ColPropertyType   = "Property Type"
	ColDealStage      = "Deal Stage"
	ColARVEstimate    = "ARV Estimate"
	ColRepairEstimate = "Repair Estimate"
	ColNotes          = "Notes"
	ColContactName    = "Contact Name"
	ColContactEmail   = "Contact Email"
	ColContactPhone   = "Contact Phone"
	ColContactType    = "Contact Type"
)

// TemplateHeader is the header line offered to users as the import template.
// Columns may appear in any order.
const TemplateHeader = "Address,Asking Price,Property Type,ARV Estimate,Repair Estimate,Notes,Contact Name,Contact Email,Contact Phone,Contact Type"

var knownColumns = []string{
	ColAddress, ColAskingPrice, ColPropertyType, ColDealStage, ColARVEstimate,
	ColRepairEstimate, ColNotes, ColContactName, ColContactEmail, ColContactPhone, ColContactType,
}

// Row is one data line keyed by header label.
type Row map[string]string

// Headers returns the trimmed tokens of the first line.
func Headers(text string) []string {
	first, _, _ := strings.Cut(text, "\n")
	tokens := strings.Split(first, ",")
	for i, t := range tokens {
		tokens[i] = strings.TrimSpace(t)
	}
	return tokens
}

// Parse turns text into rows keyed by the header line. Blank lines are
// skipped. Missing trailing values become "" and extra values are dropped.
// A comma inside a value always splits it, quotes included.
func Parse(text string) []Row {
	headers := Headers(text)
	lines := strings.Split(text, "\n")

	rows := make([]Row, 0, len(lines))
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(values) {
				row[header] = strings.TrimSpace(values[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// CheckHeaders requires an Address column and returns any columns the
// importer will ignore.
func CheckHeaders(headers []string) (unknown []string, err error) {
	if !slices.Contains(headers, ColAddress) {
		return nil, fmt.Errorf("missing required column %q", ColAddress)
	}
	for _, h := range headers {
		if h != "" && !slices.Contains(knownColumns, h) {
			unknown = append(unknown, h)
		}
	}
	return unknown, nil
}

// Maps converts rows to the plain maps sent to the bulk create endpoint.
func Maps(rows []Row) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		out[i] = map[string]string(r)
	}
	return out
}

// PropertyInput maps a row onto a property entry. Property Type defaults to
// Single Family and Deal Stage to New Lead, as on the entry form.
func (r Row) PropertyInput() (models.PropertyInput, error) {
	in := models.PropertyInput{
		Address:      r[ColAddress],
		PropertyType: models.PropertyType(r[ColPropertyType]),
		DealStage:    models.DealStage(r[ColDealStage]),
		Notes:        r[ColNotes],
		ContactName:  r[ColContactName],
		ContactEmail: r[ColContactEmail],
		ContactPhone: r[ColContactPhone],
		ContactType:  models.ContactType(r[ColContactType]),
	}
	if in.Address == "" {
		return models.PropertyInput{}, fmt.Errorf("%s is required", ColAddress)
	}
	if in.PropertyType == "" {
		in.PropertyType = models.PropertySingleFamily
	}
	if in.DealStage == "" {
		in.DealStage = models.StageNewLead
	}

	var err error
	if in.AskingPrice, err = number(r, ColAskingPrice); err != nil {
		return models.PropertyInput{}, err
	}
	if in.ARVEstimate, err = number(r, ColARVEstimate); err != nil {
		return models.PropertyInput{}, err
	}
	if in.RepairEstimate, err = number(r, ColRepairEstimate); err != nil {
		return models.PropertyInput{}, err
	}
	return in, nil
}

func number(r Row, col string) (models.BlankableNumber, error) {
	n, err := models.ParseBlankableNumber(r[col])
	if err != nil {
		return models.BlankableNumber{}, fmt.Errorf("%s: %w", col, err)
	}
	return n, nil
}
