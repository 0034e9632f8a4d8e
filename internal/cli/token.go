package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"instapic-ticketing/internal/auth"
	"instapic-ticketing/internal/config"
)

func newMirrorTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "mirror-token <kiosk-id>",
		Short: "Sign a bearer token for a Mirror kiosk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(config.Load().Paths.Settings)
			if err != nil {
				return err
			}
			token, err := auth.IssueMirrorToken(settings.SecretKey, args[0], ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}
