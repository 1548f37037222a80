// ABOUTME: Plain-text dashboard rendering
// ABOUTME: ASCII overview of stats, pipeline, recent properties, hot contacts and overdue tasks
package viz

import (
	"fmt"
	"strings"
	"time"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

func RenderDashboard(dash Dashboard) string {
	var out strings.Builder

	out.WriteString(rule)
	out.WriteString("  REAL ESTATE CRM DASHBOARD\n")
	out.WriteString(rule + "\n")

	s := dash.Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🏠 %d properties  📈 %d active deals\n", s.TotalProperties, s.ActiveDeals))
	out.WriteString(fmt.Sprintf("  💰 %s portfolio  🎯 %s potential profit\n",
		FormatThousands(s.TotalPortfolioValue), FormatThousands(s.PotentialProfit)))
	out.WriteString(fmt.Sprintf("  🔥 %d hot contacts  ⏰ %d overdue tasks\n\n", s.HotContacts, s.OverdueActivities))

	if len(dash.Pipeline) > 0 {
		out.WriteString("PIPELINE OVERVIEW\n")
		renderPipeline(&out, dash.Pipeline)
		out.WriteString("\n")
	}

	if len(dash.RecentProperties) > 0 {
		out.WriteString("RECENT PROPERTIES\n")
		for _, row := range dash.RecentProperties {
			f := row.Property.Fields
			out.WriteString(fmt.Sprintf("  %-30s %12s  %-15s profit %s\n",
				truncate(f.Address, 30), FormatDollars(row.Property.Asking()), f.DealStage, FormatDollars(row.Profit)))
		}
		out.WriteString("\n")
	}

	if len(dash.HotContacts) > 0 {
		out.WriteString("HOT CONTACTS\n")
		for _, c := range dash.HotContacts {
			line := fmt.Sprintf("  %s (%s)", c.Fields.Name, c.Fields.ContactType)
			if c.Fields.Email != "" {
				line += "  ✉ " + c.Fields.Email
			}
			if c.Fields.PhoneNumber != "" {
				line += "  ☎ " + c.Fields.PhoneNumber
			}
			out.WriteString(line + "\n")
		}
		out.WriteString("\n")
	}

	if len(dash.OverdueActivities) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		for _, a := range dash.OverdueActivities {
			out.WriteString(fmt.Sprintf("  ⚠️  %s [%s] %s • %s  due %s\n",
				a.Fields.NextAction, a.Fields.ActivityType, a.ContactName(), a.PropertyAddress(),
				DisplayDate(a.Fields.Date, dash.GeneratedAt.Location())))
		}
	}

	return out.String()
}

// DisplayDate formats an activity date for lists, or returns the raw text
// when it cannot be parsed.
func DisplayDate(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t, ok := ParseActivityDate(raw, loc)
	if !ok {
		return raw
	}
	return t.In(loc).Format("Jan 2, 2006")
}

func renderPipeline(out *strings.Builder, stages []StageCount) {
	maxCount := 0
	for _, sc := range stages {
		if sc.Count > maxCount {
			maxCount = sc.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, sc := range stages {
		barLength := (sc.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-15s %s  %2d (%s)\n", sc.Category, bar, sc.Count, FormatThousands(sc.Value)))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
