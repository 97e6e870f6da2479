package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/multiplicity"
	"github.com/eringen/multiplicity/mailinglist"
	"github.com/eringen/multiplicity/migrate"
	"github.com/eringen/multiplicity/views"
)

func newServeCmd(logger *log.Logger) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the website",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromEnv()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, multiplicity.New(cfg, views.Funcs()))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $ADDR or :3000)")
	return cmd
}

// serve runs app until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, logger *log.Logger, app *multiplicity.App) error {
	defer app.Close()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Printf("shutting down")
	if err := app.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

// configFromEnv builds the site configuration from environment variables.
func configFromEnv() (multiplicity.SiteConfig, error) {
	cfg := multiplicity.SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Organizer:     os.Getenv("SITE_ORGANIZER"),
		Addr:          os.Getenv("ADDR"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		MailingList: mailinglist.Config{
			APIKey:       os.Getenv("MAILCHIMP_API_KEY"),
			ListID:       os.Getenv("MAILCHIMP_LIST_ID"),
			ServerPrefix: multiplicity.EnvOr("MAILCHIMP_SERVER_PREFIX", mailinglist.DefaultServerPrefix),
		},
	}
	if uri := os.Getenv("DATABASE_URI"); uri != "" {
		cfg.DatabasePath = migrate.PathFromURI(uri)
	}
	var missing []string
	if cfg.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if cfg.SessionSecret == "" {
		missing = append(missing, "ADMIN_SESSION_SECRET")
	}
	if len(missing) > 0 {
		return cfg, errors.New("required environment variables not set: " + strings.Join(missing, ", "))
	}
	return cfg, nil
}
