package commands

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
)

func newAddCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction by hand",
	}
	cmd.AddCommand(newAddConsumerCmd(rt), newAddBusinessCmd(rt))
	return cmd
}

func newAddConsumerCmd(rt *runtime) *cobra.Command {
	var (
		entry        models.ManualConsumerEntry
		amount, date string
	)
	cmd := &cobra.Command{
		Use:   "consumer",
		Short: "Record a personal expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			if entry.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			if entry.Date, err = parseDate(date); err != nil {
				return err
			}
			res, err := a.Ingest.AddConsumer(cmd.Context(), entry)
			if err != nil {
				return err
			}
			return rt.emit(res, func() error { return nil })
		},
	}
	f := cmd.Flags()
	f.StringVar(&amount, "amount", "", "amount paid")
	f.StringVar(&entry.PaidTo, "paid-to", "", "who was paid")
	f.StringVar(&entry.Purpose, "purpose", "", "what it was for")
	f.StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	f.StringVar(&entry.PaymentMethod, "method", "upi", "cash, card, upi or wallet")
	f.StringVar(&entry.Category, "category", "", "spending category")
	f.StringVar(&entry.ReceiptNumber, "receipt", "", "receipt number")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newAddBusinessCmd(rt *runtime) *cobra.Command {
	var (
		entry             models.ManualBusinessEntry
		amount, date, gst string
	)
	cmd := &cobra.Command{
		Use:   "business",
		Short: "Record a business sale, purchase or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			if entry.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			if entry.Date, err = parseDate(date); err != nil {
				return err
			}
			if gst != "" {
				g, err := parseAmount(gst)
				if err != nil {
					return err
				}
				entry.GSTAmount = &g
			}
			res, err := a.Ingest.AddBusiness(cmd.Context(), entry)
			if err != nil {
				return err
			}
			return rt.emit(res, func() error { return nil })
		},
	}
	f := cmd.Flags()
	f.StringVar(&amount, "amount", "", "transaction amount")
	f.StringVar(&entry.PartyName, "party", "", "customer or supplier")
	f.StringVar(&entry.TransactionType, "type", "expense", "sale, purchase, expense or income")
	f.StringVar(&entry.Purpose, "purpose", "", "what it was for")
	f.StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	f.StringVar(&entry.PaymentMethod, "method", "netbanking", "cash, card, upi, cheque, netbanking or wallet")
	f.StringVar(&entry.Category, "category", "", "category")
	f.StringVar(&entry.InvoiceNumber, "invoice", "", "invoice number")
	f.StringVar(&gst, "gst", "", "GST amount")
	f.StringVar(&entry.PaymentTerms, "terms", "", "payment terms")
	f.StringVar(&entry.ReferenceNumber, "reference", "", "reference number")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount "+s)
	}
	return d, nil
}

func parseDate(s string) (models.Time, error) {
	if s == "" {
		now := time.Now()
		return models.Time{Time: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return models.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date "+s+", expected YYYY-MM-DD")
	}
	return models.Time{Time: t}, nil
}
