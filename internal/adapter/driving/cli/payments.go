package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govenmo/internal/adapter/driven/venmo"
	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

func newMethodsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List payment methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.authorize(cmd.Context()); err != nil {
				return err
			}
			methods, err := app.Client.PaymentMethods(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(methods) == 0 {
				fmt.Fprintln(out, "No payment methods.")
				return nil
			}
			for _, m := range methods {
				fmt.Fprintf(out, "%-22s %-8s %-8s %s\n", m.ID, m.Kind, m.Role, m.Name)
			}
			return nil
		},
	}
}

type transferFlags struct {
	note    string
	privacy string
}

func (f *transferFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.note, "note", "", "Payment note")
	cmd.Flags().StringVar(&f.privacy, "privacy", string(model.PaymentPrivacyPrivate), "private, friends or public")
}

func newSendCmd(app *App) *cobra.Command {
	var (
		flags         transferFlags
		fundingSource string
	)
	cmd := &cobra.Command{
		Use:   "send <id|@username> <amount>",
		Short: "Send money",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, privacy, err := parseTransfer(args[1], flags.privacy)
			if err != nil {
				return err
			}
			if err := app.authorize(ctx); err != nil {
				return err
			}
			targetID, err := app.resolveUserID(ctx, args[0])
			if err != nil {
				return err
			}

			payment, err := app.Client.SendMoney(ctx, venmo.SendMoneyRequest{
				TargetUserID:    targetID,
				Amount:          amount,
				Note:            flags.note,
				Privacy:         privacy,
				FundingSourceID: fundingSource,
			})
			var balanceErr *venmo.NotEnoughBalanceError
			if errors.As(err, &balanceErr) {
				return fmt.Errorf("%w (use --funding-source with an id from 'venmo methods')", err)
			}
			if err != nil {
				return err
			}
			printPaymentResult(cmd.OutOrStdout(), fmt.Sprintf("Sent $%.2f to %s.", amount, args[0]), payment)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&fundingSource, "funding-source", "", "Payment method id; defaults to the default method")
	return cmd
}

func newRequestCmd(app *App) *cobra.Command {
	var flags transferFlags
	cmd := &cobra.Command{
		Use:   "request <id|@username> <amount>",
		Short: "Request money",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, privacy, err := parseTransfer(args[1], flags.privacy)
			if err != nil {
				return err
			}
			if err := app.authorize(ctx); err != nil {
				return err
			}
			targetID, err := app.resolveUserID(ctx, args[0])
			if err != nil {
				return err
			}

			payment, err := app.Client.RequestMoney(ctx, venmo.RequestMoneyRequest{
				TargetUserID: targetID,
				Amount:       amount,
				Note:         flags.note,
				Privacy:      privacy,
			})
			if err != nil {
				return err
			}
			printPaymentResult(cmd.OutOrStdout(), fmt.Sprintf("Requested $%.2f from %s.", amount, args[0]), payment)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPendingCmd(app *App) *cobra.Command {
	var (
		limit          int
		charges, owing bool
	)
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List pending charges you sent and payments you owe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.authorize(ctx); err != nil {
				return err
			}
			if !charges && !owing {
				charges, owing = true, true
			}
			out := cmd.OutOrStdout()

			if charges {
				list, err := app.Client.ChargePayments(ctx, limit)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Requested by you (%d):\n", len(list))
				printPayments(out, list)
			}
			if owing {
				list, err := app.Client.PayPayments(ctx, limit)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Requested from you (%d):\n", len(list))
				printPayments(out, list)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of payments per list")
	cmd.Flags().BoolVar(&charges, "charges", false, "Only charges you sent")
	cmd.Flags().BoolVar(&owing, "owing", false, "Only payments you owe")
	return cmd
}

func newRemindCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remind <payment-id>",
		Short: "Remind a user of a pending charge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.authorize(cmd.Context()); err != nil {
				return err
			}
			if err := app.Client.RemindPayment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder sent for payment %s.\n", args[0])
			return nil
		},
	}
}

func newCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <payment-id>",
		Short: "Cancel a pending charge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.authorize(cmd.Context()); err != nil {
				return err
			}
			if err := app.Client.CancelPayment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payment %s cancelled.\n", args[0])
			return nil
		},
	}
}

func parseTransfer(rawAmount, rawPrivacy string) (float64, model.PaymentPrivacy, error) {
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, "", fmt.Errorf("invalid amount %q: must be a positive number", rawAmount)
	}
	privacy, err := parsePrivacy(rawPrivacy)
	if err != nil {
		return 0, "", err
	}
	return amount, privacy, nil
}

func printPaymentResult(w io.Writer, summary string, p *model.Payment) {
	fmt.Fprintln(w, summary)
	if p != nil && p.ID != "" {
		fmt.Fprintf(w, "Payment id: %s (%s)\n", p.ID, p.Status)
	}
}

func printPayments(w io.Writer, payments []model.Payment) {
	for _, p := range payments {
		who := "?"
		if p.Target != nil {
			who = "@" + p.Target.Username
		}
		if p.Action == model.PaymentActionPay && p.Actor != nil {
			who = "@" + p.Actor.Username
		}
		fmt.Fprintf(w, "  %s  %s  %.2f  %q\n", p.ID, who, p.Amount, p.Note)
	}
}
