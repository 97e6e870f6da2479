package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/eringen/multiplicity"
	"github.com/eringen/multiplicity/migrate"
	"github.com/eringen/multiplicity/seed"
)

func newSeedCmd(logger *log.Logger) *cobra.Command {
	var (
		dbPath string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo events and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				path = multiplicity.EnvOr("DATABASE_URI", "data/multiplicity.db")
				path = migrate.PathFromURI(path)
			}
			store, err := multiplicity.NewStore(path)
			if err != nil {
				return err
			}
			defer store.Close()

			content, err := seed.Demo()
			if err != nil {
				return err
			}
			n, err := seed.Apply(cmd.Context(), store, content, force)
			if errors.Is(err, seed.ErrNotEmpty) {
				logger.Printf("%s already has events; use --force to overwrite demo events", path)
				return nil
			}
			if err != nil {
				return err
			}
			logger.Printf("seeded %d events into %s", n, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default from $DATABASE_URI or data/multiplicity.db)")
	cmd.Flags().BoolVar(&force, "force", false, "seed even when events exist, updating demo events by slug")
	return cmd
}
