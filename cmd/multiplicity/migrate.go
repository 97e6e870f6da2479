package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/multiplicity/migrate"
)

func newMigrateCmd(logger *log.Logger) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Add missing columns to an existing database",
		Long: `Adds the events.host column when it is missing. A database file that
does not exist yet is skipped; the server creates the full schema on start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				path = migrate.PathFromURI(os.Getenv("DATABASE_URI"))
			}
			out, err := migrate.Run(cmd.Context(), path, migrate.HostColumn)
			if err != nil {
				logger.Printf("migrate %s: %v", path, err)
				return err
			}
			switch out {
			case migrate.Skipped:
				logger.Printf("database %s not found, skipping", path)
			case migrate.AlreadyPresent:
				logger.Printf("column %s.%s already exists", migrate.HostColumn.Table, migrate.HostColumn.Name)
			case migrate.Added:
				logger.Printf("added column %s.%s", migrate.HostColumn.Table, migrate.HostColumn.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default from $DATABASE_URI or "+migrate.DefaultDatabasePath+")")
	return cmd
}
