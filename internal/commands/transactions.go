package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"lumen/internal/models"
	"lumen/internal/output"
)

func newTransactionsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Browse transactions",
	}
	cmd.AddCommand(newTxListCmd(rt), newTxShowCmd(rt), newTxStatsCmd(rt))
	return cmd
}

func newTxListCmd(rt *runtime) *cobra.Command {
	var params models.ListParams
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			page, err := a.API.ListTransactions(cmd.Context(), params)
			if err != nil {
				return err
			}
			txs := models.MostRecent(page.Transactions, len(page.Transactions))
			return rt.emit(page, func() error {
				if len(txs) == 0 {
					rt.printer.Info("No transactions yet")
					return nil
				}
				if err := transactionTable(rt.printer, txs).Render(); err != nil {
					return err
				}
				rt.printer.Print("%s", rt.printer.Dim(fmt.Sprintf("%d of %d", len(txs), page.Total)))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&params.Limit, "limit", 20, "maximum number of transactions")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "number of transactions to skip")
	cmd.Flags().BoolVar(&params.FlaggedOnly, "flagged", false, "only flagged transactions")
	return cmd
}

func newTxShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one transaction",
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
			tx, err := a.API.GetTransaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.emit(tx, func() error {
				pr := rt.printer
				pr.Header(fmt.Sprintf("Transaction %d", tx.ID))
				pr.Print("%-10s %s", "Amount", output.Money(tx.Amount, tx.Currency))
				pr.Print("%-10s %s", "Merchant", tx.Merchant)
				pr.Print("%-10s %s", "Category", tx.Category)
				pr.Print("%-10s %s", "Date", output.Date(tx.Date))
				pr.Print("%-10s %s", "Channel", tx.PaymentChannel)
				pr.Print("%-10s %s", "Source", tx.SourceType)
				pr.Print("%-10s %s", "Status", pr.StatusBadge(tx.Status()))
				if tx.AnomalyReason != "" {
					pr.Print("%-10s %s", "Reason", tx.AnomalyReason)
				}
				return nil
			})
		},
	}
}

func newTxStatsCmd(rt *runtime) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Spending summary for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			st, err := a.API.Stats(cmd.Context(), days)
			if err != nil {
				return err
			}
			return rt.emit(st, func() error {
				return printStats(rt.printer, st)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "period in days")
	return cmd
}

func transactionTable(pr *output.Printer, txs []models.Transaction) *output.Table {
	table := pr.NewTable("ID", "DATE", "MERCHANT", "CATEGORY", "AMOUNT", "STATUS")
	for _, tx := range txs {
		table.AddRow(
			strconv.FormatInt(tx.ID, 10),
			output.Date(tx.Date),
			output.Truncate(tx.Merchant, 28),
			tx.Category,
			output.Money(tx.Amount, tx.Currency),
			pr.StatusBadge(tx.Status()),
		)
	}
	return table
}

func printStats(pr *output.Printer, st *models.Stats) error {
	pr.Header(fmt.Sprintf("Last %d days", st.PeriodDays))
	pr.Print("%d transactions, %s total, %s average", st.TotalTransactions,
		st.TotalAmount.StringFixed(2), st.AverageAmount.StringFixed(2))
	pr.Print("%d flagged, %d confirmed, %d awaiting review", st.FlaggedCount, st.ConfirmedCount, st.UnconfirmedCount)

	if len(st.Categories) > 0 {
		pr.Header("Categories")
		table := pr.NewTable("CATEGORY", "COUNT", "TOTAL", "SHARE")
		for _, c := range st.Categories {
			table.AddRow(c.Category, strconv.Itoa(c.Count), c.Total.StringFixed(2), fmt.Sprintf("%.1f%%", c.Percentage))
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	if len(st.TopMerchants) > 0 {
		pr.Header("Top merchants")
		table := pr.NewTable("MERCHANT", "COUNT", "SPENT")
		for _, m := range st.TopMerchants {
			table.AddRow(m.Merchant, strconv.Itoa(m.TransactionCount), m.TotalSpent.StringFixed(2))
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	if len(st.PaymentChannels) > 0 {
		channels := make([]string, 0, len(st.PaymentChannels))
		for ch := range st.PaymentChannels {
			channels = append(channels, ch)
		}
		sort.Strings(channels)
		pr.Header("Payment channels")
		for _, ch := range channels {
			pr.Print("%-12s %d", ch, st.PaymentChannels[ch])
		}
	}
	return nil
}
