package cli

import (
	"github.com/spf13/cobra"

	"instapic-ticketing/internal/app"
	"instapic-ticketing/internal/config"
	"instapic-ticketing/internal/logger"
)

// openApp builds the service from the environment, logging to stderr so
// command output stays clean.
func openApp(cmd *cobra.Command) (*app.App, error) {
	log := logger.NewWithWriter(cmd.ErrOrStderr())
	return app.New(cmd.Context(), config.Load(), log)
}
