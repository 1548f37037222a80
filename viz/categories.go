// ABOUTME: Deal stage to display category lookup with colors
// ABOUTME: Stages outside the fixed list land in the Unrecognized bucket
package viz

import "github.com/harperreed/reicrm/models"

type Category string

const (
	CategoryNewLead       Category = "New Lead"
	CategoryContacted     Category = "Contacted"
	CategoryAnalyzing     Category = "Analyzing"
	CategoryNegotiating   Category = "Negotiating"
	CategoryUnderContract Category = "Under Contract"
	CategoryClosed        Category = "Closed"
	CategoryDead          Category = "Dead"
	CategoryUnrecognized  Category = "Unrecognized"
)

// Categories is the display order of the pipeline.
var Categories = []Category{
	CategoryNewLead, CategoryContacted, CategoryAnalyzing, CategoryNegotiating,
	CategoryUnderContract, CategoryClosed, CategoryDead, CategoryUnrecognized,
}

var stageCategories = map[models.DealStage]Category{
	models.StageNewLead:       CategoryNewLead,
	models.StageContacted:     CategoryContacted,
	models.StageAnalyzing:     CategoryAnalyzing,
	models.StageNegotiating:   CategoryNegotiating,
	models.StageUnderContract: CategoryUnderContract,
	models.StageClosed:        CategoryClosed,
	models.StageDead:          CategoryDead,
}

// StageCategory maps a deal stage to its display category. Keep this table
// in step with models.DealStages.
func StageCategory(stage models.DealStage) Category {
	if cat, ok := stageCategories[stage]; ok {
		return cat
	}
	return CategoryUnrecognized
}

type palette struct {
	name string
	hex  string
}

var categoryPalette = map[Category]palette{
	CategoryNewLead:       {"gray", "#6B7280"},
	CategoryContacted:     {"blue", "#2563EB"},
	CategoryAnalyzing:     {"yellow", "#CA8A04"},
	CategoryNegotiating:   {"orange", "#EA580C"},
	CategoryUnderContract: {"purple", "#9333EA"},
	CategoryClosed:        {"green", "#16A34A"},
	CategoryDead:          {"red", "#DC2626"},
	CategoryUnrecognized:  {"gray", "#6B7280"},
}

// ColorName is the badge color name used by the HTML dashboard.
func (c Category) ColorName() string {
	if p, ok := categoryPalette[c]; ok {
		return p.name
	}
	return "gray"
}

// Hex is the badge color used by the terminal dashboard.
func (c Category) Hex() string {
	if p, ok := categoryPalette[c]; ok {
		return p.hex
	}
	return categoryPalette[CategoryUnrecognized].hex
}
