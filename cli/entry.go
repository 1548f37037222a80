// ABOUTME: Data entry subcommands for properties, activities and CSV import
// ABOUTME: Drive the entry forms against a running gateway
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/reicrm/forms"
	"github.com/harperreed/reicrm/ingest"
	"github.com/harperreed/reicrm/models"
)

func newPropertyCommand(a *app) *cobra.Command {
	propertyCmd := &cobra.Command{
		Use:   "property",
		Short: "Manage properties",
	}

	form := forms.NewPropertyForm()
	var propertyType, dealStage, contactType string

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a property, linking or creating its contact by name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.PropertyType = models.PropertyType(propertyType)
			form.DealStage = models.DealStage(dealStage)
			form.ContactType = models.ContactType(contactType)
			address := form.Address

			banner := form.Submit(cmd.Context(), a.client())
			if err := printBanner(cmd.OutOrStdout(), banner); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Address: %s\n", address)
			return nil
		},
	}
	f := add.Flags()
	f.StringVar(&form.Address, "address", "", "street address (required)")
	f.StringVar(&form.AskingPrice, "price", "", "asking price")
	f.StringVar(&propertyType, "type", string(models.PropertySingleFamily), "property type")
	f.StringVar(&dealStage, "stage", string(models.StageNewLead), "deal stage")
	f.StringVar(&form.ARVEstimate, "arv", "", "after-repair value estimate")
	f.StringVar(&form.RepairEstimate, "repairs", "", "repair estimate")
	f.StringVar(&form.Notes, "notes", "", "notes")
	f.StringVar(&form.ContactName, "contact-name", "", "contact name")
	f.StringVar(&form.ContactEmail, "contact-email", "", "contact email")
	f.StringVar(&form.ContactPhone, "contact-phone", "", "contact phone")
	f.StringVar(&contactType, "contact-type", string(models.ContactSeller), "contact type")

	list := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			properties, err := a.client().ListProperties(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range properties {
				fmt.Fprintf(out, "%s\t%s\t%s\t%.0f\n", p.ID, p.Fields.Address, p.Fields.DealStage, p.Asking())
			}
			return nil
		},
	}

	propertyCmd.AddCommand(add, list)
	return propertyCmd
}

func newContactCommand(a *app) *cobra.Command {
	contactCmd := &cobra.Command{
		Use:   "contact",
		Short: "Browse contacts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := a.client().ListContacts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range contacts {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", c.ID, c.Fields.Name, c.Fields.ContactType, c.Fields.Temperature)
			}
			return nil
		},
	}

	contactCmd.AddCommand(list)
	return contactCmd
}

func newActivityCommand(a *app) *cobra.Command {
	activityCmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage activities",
	}

	form := forms.NewActivityForm()
	var activityType string
	var noFollowup bool

	add := &cobra.Command{
		Use:   "add",
		Short: "Add an activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.ActivityType = models.ActivityType(activityType)
			form.FollowupRequired = !noFollowup

			gw := a.client()
			if form.ContactID != "" || form.PropertyID != "" {
				if err := form.LoadOptions(cmd.Context(), gw); err != nil {
					return err
				}
				if err := form.CheckLinks(); err != nil {
					return printBanner(cmd.OutOrStdout(), forms.InputBanner(err))
				}
			}
			return printBanner(cmd.OutOrStdout(), form.Submit(cmd.Context(), gw))
		},
	}
	f := add.Flags()
	f.StringVar(&form.NextAction, "next-action", "", "what needs to happen next (required)")
	f.StringVar(&activityType, "type", string(models.ActivityCall), "activity type")
	f.StringVar(&form.Date, "date", "", "date (YYYY-MM-DD)")
	f.StringVar(&form.Time, "time", "", "time (HH:MM)")
	f.StringVar(&form.Notes, "notes", "", "notes")
	f.BoolVar(&noFollowup, "no-followup", false, "no follow-up required")
	f.StringVar(&form.ContactID, "contact", "", "contact record id")
	f.StringVar(&form.PropertyID, "property", "", "property record id")

	complete := &cobra.Command{
		Use:   "complete <activity-id>",
		Short: "Mark an activity completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client().CompleteActivity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", result.Message)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			activities, err := a.client().ListActivities(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, act := range activities {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
					act.ID, act.Fields.Status, act.Fields.Date, act.Fields.NextAction, act.ContactName())
			}
			return nil
		},
	}

	activityCmd.AddCommand(add, complete, list)
	return activityCmd
}

func newImportCommand(a *app) *cobra.Command {
	var template bool
	cmd := &cobra.Command{
		Use:   "import [file.csv|-]",
		Short: "Bulk-import properties from a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if template {
				fmt.Fprintln(out, ingest.TemplateHeader)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a CSV file is required (use - for stdin)")
			}

			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			if unknown, err := ingest.CheckHeaders(ingest.Headers(text)); err == nil && len(unknown) > 0 {
				fmt.Fprintf(out, "Ignoring unknown columns: %s\n", strings.Join(unknown, ", "))
			}

			result := forms.ImportCSV(cmd.Context(), a.client(), text)
			fmt.Fprintf(out, "Total: %d  Successful: %d  Failed: %d\n", result.Total, result.Successful, result.Failed)
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  ✗ %s\n", e)
			}
			if !result.Success {
				return fmt.Errorf("import finished with %d failed rows", result.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, "print the CSV template header and exit")
	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(raw), nil
}

func printBanner(w io.Writer, b forms.Banner) error {
	if !b.Success {
		return fmt.Errorf("%s", b.Message)
	}
	fmt.Fprintf(w, "✓ %s\n", b.Message)
	return nil
}
