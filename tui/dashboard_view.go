// ABOUTME: Dashboard rendering for the terminal UI
// ABOUTME: Stat cards, pipeline, recent properties table, hot contacts and overdue activities
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/reicrm/viz"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(18)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	cardValueStyle = lipgloss.NewStyle().
			Bold(true)

	hotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

type statCard struct {
	label string
	value string
	color string
}

func newPropertiesTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Address", Width: 30},
			{Title: "Price", Width: 12},
			{Title: "Stage", Width: 16},
			{Title: "Profit", Width: 12},
		}),
		table.WithHeight(10),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return t
}

func propertyRows(rows []viz.PropertyRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{
			r.Property.Fields.Address,
			viz.FormatDollars(r.Property.Asking()),
			string(r.Property.Fields.DealStage),
			viz.FormatDollars(r.Profit),
		})
	}
	return out
}

func (m Model) renderLoading() string {
	return fmt.Sprintf("\n  %s Loading dashboard...\n", m.spinner.View())
}

func (m Model) renderError() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Real Estate CRM Dashboard"))
	s.WriteString("\n\n")
	s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("r: retry • q: quit"))
	return s.String()
}

func (m Model) renderDashboard() string {
	d := m.dashboard
	var s strings.Builder

	s.WriteString(titleStyle.Render("Real Estate CRM Dashboard"))
	s.WriteString("\n")
	s.WriteString(subtitleStyle.Render("Your complete property and contact management system"))
	s.WriteString("\n\n")

	s.WriteString(renderCards([]statCard{
		{"Total Properties", fmt.Sprintf("%d", d.Stats.TotalProperties), "33"},
		{"Active Deals", fmt.Sprintf("%d", d.Stats.ActiveDeals), "35"},
		{"Portfolio Value", viz.FormatThousands(d.Stats.TotalPortfolioValue), "135"},
		{"Potential Profit", viz.FormatThousands(d.Stats.PotentialProfit), "208"},
		{"Hot Contacts", fmt.Sprintf("%d", d.Stats.HotContacts), "196"},
		{"Overdue Tasks", fmt.Sprintf("%d", d.Stats.OverdueActivities), "220"},
	}, m.width))
	s.WriteString("\n\n")

	s.WriteString(sectionStyle.Render("Pipeline"))
	s.WriteString("\n")
	s.WriteString(renderPipeline(d.Pipeline))
	s.WriteString("\n")

	s.WriteString(sectionStyle.Render("Recent Properties"))
	s.WriteString("\n")
	if len(d.RecentProperties) == 0 {
		s.WriteString(subtitleStyle.Render("No properties yet."))
	} else {
		s.WriteString(m.table.View())
	}
	s.WriteString("\n\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(48).Render(renderHotContacts(d)),
		renderOverdue(d),
	))
	s.WriteString("\n")

	s.WriteString(helpStyle.Render("↑/↓: browse properties • r: refresh • q: quit"))
	return s.String()
}

// renderCards lays the stat cards out in as many columns as the width allows.
func renderCards(cards []statCard, width int) string {
	perRow := width / 22
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	var row []string
	for _, c := range cards {
		card := cardStyle.BorderForeground(lipgloss.Color(c.color)).Render(
			cardLabelStyle.Render(c.label) + "\n" + cardValueStyle.Render(c.value),
		)
		row = append(row, card)
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderPipeline(pipeline []viz.StageCount) string {
	var s strings.Builder
	for _, sc := range pipeline {
		if sc.Count == 0 {
			continue
		}
		badge := lipgloss.NewStyle().
			Foreground(lipgloss.Color(sc.Category.Hex())).
			Width(16).
			Render(string(sc.Category))
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(sc.Category.Hex())).
			Render(strings.Repeat("█", min(sc.Count, 40)))
		fmt.Fprintf(&s, "%s %s %d (%s)\n", badge, bar, sc.Count, viz.FormatThousands(sc.Value))
	}
	if s.Len() == 0 {
		return subtitleStyle.Render("No deals in the pipeline.") + "\n"
	}
	return s.String()
}

func renderHotContacts(d viz.Dashboard) string {
	var s strings.Builder
	s.WriteString(sectionStyle.Render("Hot Contacts"))
	s.WriteString("\n")
	if len(d.HotContacts) == 0 {
		s.WriteString(subtitleStyle.Render("No hot contacts."))
		return s.String()
	}
	for _, c := range d.HotContacts {
		s.WriteString(hotStyle.Render("● " + c.Fields.Name))
		s.WriteString(subtitleStyle.Render(" " + string(c.Fields.ContactType)))
		s.WriteString("\n")
		if c.Fields.Email != "" {
			s.WriteString("  ✉ " + c.Fields.Email + "\n")
		}
		if c.Fields.PhoneNumber != "" {
			s.WriteString("  ☎ " + c.Fields.PhoneNumber + "\n")
		}
	}
	return s.String()
}

func renderOverdue(d viz.Dashboard) string {
	var s strings.Builder
	s.WriteString(sectionStyle.Render("Overdue Activities"))
	s.WriteString("\n")
	if len(d.OverdueActivities) == 0 {
		s.WriteString(subtitleStyle.Render("Nothing overdue."))
		return s.String()
	}
	for _, a := range d.OverdueActivities {
		s.WriteString(overdueStyle.Render("! " + a.Fields.NextAction))
		s.WriteString("\n")
		s.WriteString(subtitleStyle.Render(fmt.Sprintf("  %s • %s • %s",
			a.Fields.ActivityType, a.ContactName(), viz.DisplayDate(a.Fields.Date, d.GeneratedAt.Location()))))
		s.WriteString("\n")
	}
	return s.String()
}
