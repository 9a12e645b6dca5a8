// @title           Transport API
// @version         1.0
// @description     API логистической платформы: аккаунты, посты, транспорт, бронирования.
// @contact.name    Transport Support
// @contact.email   support@transport.local
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import (
	"context"
	"fmt"
	"os"

	_ "transport_backend/docs"
	"transport_backend/database"
	"transport_backend/internal/app"
	"transport_backend/internal/config"
	"transport_backend/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "web",
		Short:         "Transport backend HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(commandContext(cmd))
		},
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(commandContext(cmd))
		},
	}
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	for _, name := range []string{"up", "down", "status"} {
		cmd.AddCommand(newMigrateSubcommand(name))
	}
	return cmd
}

func newMigrateSubcommand(command string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: fmt.Sprintf("Run goose %s", command),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := config.LoadConfig(ctx)
			if err != nil {
				return err
			}
			logger.Init(cfg.App.Env)
			return database.Migrate(ctx, cfg.Database.DSN, command)
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
