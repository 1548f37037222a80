// ABOUTME: emulate subcommand
// ABOUTME: Serves a local SQLite-backed stand-in for the record store API
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/reicrm/db"
	"github.com/harperreed/reicrm/emulator"
	"github.com/harperreed/reicrm/logging"
)

func newEmulateCommand(a *app) *cobra.Command {
	var addr, dbPath string
	cmd := &cobra.Command{
		Use:   "emulate",
		Short: "Run a local record store emulator for development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Emulator.Addr
			}
			if dbPath == "" {
				dbPath = a.cfg.Emulator.DBPath
			}

			conn, err := db.OpenDatabase(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			baseID := a.cfg.Airtable.BaseID
			if baseID == "" {
				baseID = "appLOCAL"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Emulating base %s at %s (data: %s)\n", baseID, emulator.BaseURL(addr), dbPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Point the gateway at it with AIRTABLE_API_URL=%s AIRTABLE_BASE_ID=%s\n", emulator.BaseURL(addr), baseID)

			srv := emulator.NewServer(db.NewRecordsRepository(conn), emulator.Options{
				BaseID: baseID,
				Token:  a.cfg.Airtable.Token,
				Logger: logging.L,
			})
			return srv.Serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default from config)")
	return cmd
}
