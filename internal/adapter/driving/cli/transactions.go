package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govenmo/internal/adapter/driven/venmo"
	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

func newTransactionsCmd(app *App) *cobra.Command {
	var (
		opts  venmo.ListOptions
		with  string
		pages int
	)
	cmd := &cobra.Command{
		Use:   "transactions [id|@username]",
		Short: "List payment stories of a user, by default yourself",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.authorize(ctx); err != nil {
				return err
			}
			id, err := app.resolveUserOrMe(ctx, args)
			if err != nil {
				return err
			}

			var page *venmo.Page[model.Transaction]
			if with != "" {
				var otherID string
				if otherID, err = app.resolveUserID(ctx, with); err != nil {
					return err
				}
				page, err = app.Client.TransactionsBetween(ctx, id, otherID, opts)
			} else {
				page, err = app.Client.UserTransactions(ctx, id, opts)
			}

			for n := 0; err == nil && n < pages && page.Len() > 0; n++ {
				printTransactions(cmd.OutOrStdout(), page.Items)
				if n+1 < pages {
					page, err = page.Next(ctx)
				}
			}
			if err == nil && page.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No more transactions.")
			}
			return err
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Page size (at most 50)")
	cmd.Flags().StringVar(&opts.BeforeID, "before", "", "Only stories older than this story id")
	cmd.Flags().StringVar(&with, "with", "", "Only stories between the user and this id or @username")
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to fetch")
	return cmd
}

func printTransactions(w io.Writer, txs []model.Transaction) {
	for _, tx := range txs {
		actor, target := "?", "?"
		if tx.Actor != nil {
			actor = "@" + tx.Actor.Username
		}
		if tx.Target != nil {
			target = "@" + tx.Target.Username
		}
		fmt.Fprintf(w, "%s  %s  %-7s %s -> %s  %.2f  %q\n",
			tx.ID, tx.DateCreated.Format("2006-01-02"), tx.Action, actor, target, tx.Amount, tx.Note)
	}
}
