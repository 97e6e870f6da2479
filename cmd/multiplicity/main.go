// Command multiplicity serves the Multiplicity website and carries its
// maintenance commands.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	logger := log.New(stderr, "multiplicity: ", log.LstdFlags)

	root := &cobra.Command{
		Use:           "multiplicity",
		Short:         "The Multiplicity event series website",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadEnv(logger)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newServeCmd(logger),
		newMigrateCmd(logger),
		newSeedCmd(logger),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "multiplicity %s\n", version)
			},
		},
	)
	return root
}

// loadEnv reads .env outside production. A missing file is fine: the
// environment may already be set.
func loadEnv(logger *log.Logger) {
	if os.Getenv("GO_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("warning: .env not loaded: %v", err)
	}
}
