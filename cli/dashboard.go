// ABOUTME: Dashboard, stats and visualization subcommands
// ABOUTME: Read the three collections from the gateway and summarize them
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/harperreed/reicrm/tui"
	"github.com/harperreed/reicrm/viz"
)

func newDashboardCommand(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard (interactive on a terminal)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.client()
			if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(cmd.Context(), c)
			}

			snap, err := c.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), viz.RenderDashboard(viz.BuildDashboard(snap, time.Now())))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print a text dashboard instead of the interactive view")
	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the headline statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.client().FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			stats := viz.ComputeStats(snap.Properties, snap.Contacts, snap.Activities, time.Now())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			fmt.Fprintf(out, "Total Properties:  %d\n", stats.TotalProperties)
			fmt.Fprintf(out, "Active Deals:      %d\n", stats.ActiveDeals)
			fmt.Fprintf(out, "Portfolio Value:   %s\n", viz.FormatThousands(stats.TotalPortfolioValue))
			fmt.Fprintf(out, "Potential Profit:  %s\n", viz.FormatThousands(stats.PotentialProfit))
			fmt.Fprintf(out, "Hot Contacts:      %d\n", stats.HotContacts)
			fmt.Fprintf(out, "Overdue Tasks:     %d\n", stats.OverdueActivities)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newVizCommand(a *app) *cobra.Command {
	vizCmd := &cobra.Command{
		Use:   "viz",
		Short: "Graph visualizations",
	}

	var output string
	pipeline := &cobra.Command{
		Use:   "pipeline",
		Short: "Generate a GraphViz graph of properties by deal stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.client().FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			dot, err := viz.GeneratePipelineGraph(cmd.Context(), snap.Properties, snap.Contacts)
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, []byte(dot), 0644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dot)
			return nil
		},
	}
	pipeline.Flags().StringVar(&output, "output", "", "output file (default: stdout)")

	vizCmd.AddCommand(pipeline)
	return vizCmd
}
