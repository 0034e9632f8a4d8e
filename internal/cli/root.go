// Package cli implements ticketctl, the operator tool for the ticket store.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// NewRootCmd creates the root cobra command for ticketctl.
func NewRootCmd(v string) *cobra.Command {
	version = v

	root := &cobra.Command{
		Use:           "ticketctl",
		Short:         "ticketctl manages photo tickets",
		Long:          "ticketctl issues, inspects and completes photo tickets directly against the ticket store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newIssueCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newCompleteCmd())
	root.AddCommand(newMirrorTokenCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("ticketctl " + version + "\n"))
			return err
		},
	}
}
