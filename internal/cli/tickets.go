package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"instapic-ticketing/internal/models"
)

func newIssueCmd() *cobra.Command {
	var orderID string
	cmd := &cobra.Command{
		Use:   "issue [package-id]",
		Short: "Issue a ticket for a package, or for a paid order with --order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if orderID == "" && len(args) == 0 {
				return fmt.Errorf("a package id or --order is required")
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var ticket *models.Ticket
			if orderID != "" {
				ticket, err = a.Service.IssueFromPayment(cmd.Context(), orderID)
			} else {
				ticket, err = a.Service.IssueDev(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ticket.TicketCode)
			return err
		},
	}
	cmd.Flags().StringVar(&orderID, "order", "", "external order id to verify with the payment provider")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticket-code>",
		Short: "Print a ticket as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			lookup, err := a.Service.LookupTicket(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(lookup)
		},
	}
}

func newListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.Service.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tPACKAGE\tEVENT\tAMOUNT\tSTATUS\tCREATED")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t$%s\t%s\t%s\n",
					row.TicketCode, row.PackageName, row.EventCode, row.AmountDollars,
					row.Status, row.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of tickets to show")
	return cmd
}

func newCompleteCmd() *cobra.Command {
	var sessionID, imageURL string
	cmd := &cobra.Command{
		Use:   "complete <ticket-code>",
		Short: "Mark a ticket USED, as the Mirror does after a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ticket, err := a.Service.CompleteSession(cmd.Context(), args[0], optional(sessionID), optional(imageURL))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ticket.TicketCode, ticket.Status)
			return err
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id reported by the Mirror")
	cmd.Flags().StringVar(&imageURL, "image", "", "url of the session image")
	return cmd
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
