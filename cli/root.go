// ABOUTME: Root command and shared setup for the reicrm CLI
// ABOUTME: Loads configuration, initializes logging and builds gateway clients
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/reicrm/airtable"
	"github.com/harperreed/reicrm/client"
	"github.com/harperreed/reicrm/config"
	"github.com/harperreed/reicrm/handlers"
	"github.com/harperreed/reicrm/logging"
)

const Version = "0.1.0"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        config.Config
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "reicrm",
		Short:         "Real estate investor CRM",
		Long:          "A property, contact and activity tracker backed by an Airtable base.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.Init(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(
		newServeCommand(a),
		newMCPCommand(a),
		newDashboardCommand(a),
		newStatsCommand(a),
		newPropertyCommand(a),
		newContactCommand(a),
		newActivityCommand(a),
		newImportCommand(a),
		newVizCommand(a),
		newEmulateCommand(a),
	)
	return root
}

// Execute runs the CLI with a context cancelled on SIGINT or SIGTERM.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// gateway builds the in-process gateway over the configured record store.
func (a *app) gateway() (*handlers.Gateway, error) {
	if err := a.cfg.ValidateGateway(); err != nil {
		return nil, err
	}
	store, err := airtable.NewClient(airtable.Config{
		APIURL:  a.cfg.Airtable.APIURL,
		BaseID:  a.cfg.Airtable.BaseID,
		Token:   a.cfg.Airtable.Token,
		Timeout: a.cfg.Airtable.Timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create record store client: %w", err)
	}
	return handlers.NewGateway(store, a.cfg.Resolver.StrictContactLinking, logging.L), nil
}

// client talks to a running gateway over HTTP.
func (a *app) client() *client.Client {
	return client.New(a.cfg.Client.GatewayURL, config.DefaultTimeout)
}
