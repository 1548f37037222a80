// ABOUTME: Dashboard statistics derived from one snapshot of the three tables
// ABOUTME: Pure functions; inputs are never modified and the clock is passed in
package viz

import (
	"math"
	"time"

	"github.com/harperreed/reicrm/models"
)

const (
	recentPropertyLimit  = 10
	hotContactLimit      = 5
	overdueActivityLimit = 5
)

type Stats struct {
	TotalProperties     int     `json:"totalProperties"`
	ActiveDeals         int     `json:"activeDeals"`
	TotalPortfolioValue float64 `json:"totalPortfolioValue"`
	PotentialProfit     float64 `json:"potentialProfit"`
	HotContacts         int     `json:"hotContacts"`
	OverdueActivities   int     `json:"overdueActivities"`
}

// ComputeStats derives the headline numbers. Absent numeric fields count as 0.
func ComputeStats(properties []models.Property, contacts []models.Contact, activities []models.Activity, now time.Time) Stats {
	stats := Stats{TotalProperties: len(properties)}

	for _, p := range properties {
		if p.Fields.DealStage != "" && !p.Fields.DealStage.IsTerminal() {
			stats.ActiveDeals++
		}
		stats.TotalPortfolioValue += p.Asking()
		stats.PotentialProfit += PropertyProfit(p)
	}

	for _, c := range contacts {
		if c.Fields.Temperature == models.TemperatureHot {
			stats.HotContacts++
		}
	}

	for _, a := range activities {
		if IsOverdue(a, now) {
			stats.OverdueActivities++
		}
	}

	return stats
}

// PropertyProfit is ARV minus asking minus repairs, floored at 0.
func PropertyProfit(p models.Property) float64 {
	return math.Max(0, p.ARV()-p.Asking()-p.Repairs())
}

// StartOfDay returns local midnight of now's day in now's location.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// IsOverdue reports whether an open activity is dated before today.
// Activities without a parseable date are never overdue.
func IsOverdue(a models.Activity, now time.Time) bool {
	if a.IsCompleted() || a.Fields.Date == "" {
		return false
	}
	when, ok := ParseActivityDate(a.Fields.Date, now.Location())
	if !ok {
		return false
	}
	return when.Before(StartOfDay(now))
}

var zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}

// Layouts without a zone are read in the caller's location.
var localLayouts = []string{"2006-01-02", "2006-01-02T15:04", "2006-01-02T15:04:05"}

// ParseActivityDate reads the store's date and date-time formats.
func ParseActivityDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatThousands renders a dollar amount in thousands, rounded to the
// nearest whole unit: 150000 -> "$150K".
func FormatThousands(v float64) string {
	return "$" + groupDigits(int64(math.Round(v/1000))) + "K"
}

// FormatDollars renders a whole-dollar amount with thousands separators.
func FormatDollars(v float64) string {
	return "$" + groupDigits(int64(math.Round(v)))
}

func groupDigits(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := []byte{}
	for i := 0; ; i++ {
		if i > 0 && i%3 == 0 {
			digits = append(digits, ',')
		}
		digits = append(digits, byte('0'+n%10))
		n /= 10
		if n == 0 {
			break
		}
	}
	if neg {
		digits = append(digits, '-')
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// PropertyRow is one line of the recent properties table.
type PropertyRow struct {
	Property models.Property `json:"property"`
	Profit   float64         `json:"profit"`
	Category Category        `json:"category"`
}

// StageCount is one bar of the pipeline overview.
type StageCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Value    float64  `json:"value"`
}

// Dashboard is Stats plus the lists shown alongside them.
type Dashboard struct {
	Stats             Stats             `json:"stats"`
	Pipeline          []StageCount      `json:"pipeline"`
	RecentProperties  []PropertyRow     `json:"recentProperties"`
	HotContacts       []models.Contact  `json:"hotContacts"`
	OverdueActivities []models.Activity `json:"overdueActivities"`
	GeneratedAt       time.Time         `json:"generatedAt"`
}

// BuildDashboard computes Stats and the presentation lists. Lists keep the
// store's order and are truncated, not sorted.
func BuildDashboard(snap models.Snapshot, now time.Time) Dashboard {
	dash := Dashboard{
		Stats:             ComputeStats(snap.Properties, snap.Contacts, snap.Activities, now),
		Pipeline:          pipeline(snap.Properties),
		RecentProperties:  []PropertyRow{},
		HotContacts:       []models.Contact{},
		OverdueActivities: []models.Activity{},
		GeneratedAt:       now,
	}

	for _, p := range snap.Properties {
		if len(dash.RecentProperties) == recentPropertyLimit {
			break
		}
		dash.RecentProperties = append(dash.RecentProperties, PropertyRow{
			Property: p,
			Profit:   PropertyProfit(p),
			Category: StageCategory(p.Fields.DealStage),
		})
	}

	for _, c := range snap.Contacts {
		if len(dash.HotContacts) == hotContactLimit {
			break
		}
		if c.Fields.Temperature == models.TemperatureHot {
			dash.HotContacts = append(dash.HotContacts, c)
		}
	}

	for _, a := range snap.Activities {
		if len(dash.OverdueActivities) == overdueActivityLimit {
			break
		}
		if IsOverdue(a, now) {
			dash.OverdueActivities = append(dash.OverdueActivities, a)
		}
	}

	return dash
}

func pipeline(properties []models.Property) []StageCount {
	byCategory := make(map[Category]StageCount)
	for _, p := range properties {
		cat := StageCategory(p.Fields.DealStage)
		sc := byCategory[cat]
		sc.Category = cat
		sc.Count++
		sc.Value += p.Asking()
		byCategory[cat] = sc
	}

	out := []StageCount{}
	for _, cat := range Categories {
		if sc, ok := byCategory[cat]; ok {
			out = append(out, sc)
		}
	}
	return out
}
