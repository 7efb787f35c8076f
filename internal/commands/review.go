package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lumen/internal/models"
	"lumen/internal/services"
)

func newReviewCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review flagged transactions",
	}

	var limit int
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Flagged transactions awaiting review",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			page, err := a.Review.Pending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return rt.emit(page, func() error {
				if len(page.Transactions) == 0 {
					rt.printer.Success("Nothing to review")
					return nil
				}
				table := rt.printer.NewTable("ID", "DATE", "MERCHANT", "AMOUNT", "SCORE", "REASON")
				for _, tx := range page.Transactions {
					score := "-"
					if tx.AnomalyScore != nil {
						score = fmt.Sprintf("%.2f", *tx.AnomalyScore)
					}
					table.AddRow(fmt.Sprint(tx.ID), tx.Date.Format("2006-01-02"), tx.Merchant,
						tx.Amount.StringFixed(2), score, tx.AnomalyReason)
				}
				if err := table.Render(); err != nil {
					return err
				}
				rt.printer.Print("%s", rt.printer.Dim(fmt.Sprintf("%d awaiting review", page.PendingReview)))
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", services.DefaultFlaggedLimit, "maximum number of transactions")

	explain := &cobra.Command{
		Use:   "explain ID",
		Short: "Why a transaction was flagged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.session()
			if err != nil {
				return err
			}
			exp, err := a.Review.Explain(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.emit(exp, func() error {
				rt.printer.Print("%s", exp.Message)
				return nil
			})
		},
	}

	cmd.AddCommand(
		list,
		newResolveCmd(rt, "confirm", "Mark a flagged transaction as legitimate", func(s *services.ReviewService) resolveFunc { return s.Confirm }),
		newResolveCmd(rt, "reject", "Mark a flagged transaction as fraudulent", func(s *services.ReviewService) resolveFunc { return s.Reject }),
		explain,
	)
	return cmd
}

type resolveFunc func(ctx context.Context, id int64, notes string) (*models.ConfirmResult, error)

func newResolveCmd(rt *runtime, use, short string, pick func(*services.ReviewService) resolveFunc) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.session()
			if err != nil {
				return err
			}
			res, err := pick(a.Review)(cmd.Context(), id, notes)
			if err != nil {
				return err
			}
			// The success toast is printed once the command returns.
			return rt.emit(res, func() error { return nil })
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "optional note stored with the decision")
	return cmd
}
