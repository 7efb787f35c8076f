package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	apperrors "lumen/internal/errors"
	"lumen/internal/output"
	"lumen/internal/services"
)

// watchTick is how often watch looks for a fresh dashboard.
const watchTick = 100 * time.Millisecond

func newWatchCmd(rt *runtime) *cobra.Command {
	var (
		interval time.Duration
		limit    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dashboard on screen, refreshing until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval > 0 {
				rt.cfg.PollInterval = interval
			}
			a, err := rt.session()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if limit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, limit)
				defer cancel()
			}

			a.Dashboard.Mount(ctx)
			defer a.Dashboard.Unmount()

			ticker := time.NewTicker(watchTick)
			defer ticker.Stop()

			var seen time.Time
			var lastErr string
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}

				snap := a.Dashboard.Snapshot()
				if snap.Error != "" && snap.Error != lastErr {
					lastErr = snap.Error
					rt.printer.Warning("%s", snap.Error)
				}
				if !a.Sessions.IsAuthenticated() {
					return apperrors.ErrNotAuthenticated
				}
				if !snap.Loaded || !snap.UpdatedAt.After(seen) {
					continue
				}
				seen = snap.UpdatedAt
				lastErr = ""
				if err := rt.emit(snap.Data, func() error {
					return printDashboard(rt.printer, snap)
				}); err != nil {
					return err
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from POLL_INTERVAL)")
	cmd.Flags().DurationVar(&limit, "for", 0, "stop after this long (default: until interrupted)")
	return cmd
}

func printDashboard(pr *output.Printer, snap services.Snapshot[services.Dashboard]) error {
	d := snap.Data
	title := "Dashboard"
	if d.Profile != nil && d.Profile.Name != "" {
		title = "Dashboard for " + d.Profile.Name
	}
	pr.Header(title)
	pr.Print("%s", pr.Dim("updated "+snap.UpdatedAt.Format("15:04:05")))

	if d.Stats != nil {
		pr.Print("%d transactions, %s spent over %d days, %d awaiting review",
			d.Stats.TotalTransactions, d.Stats.TotalAmount.StringFixed(2), d.Stats.PeriodDays, d.Stats.UnconfirmedCount)
	}
	if len(d.Recent) == 0 {
		pr.Info("No transactions yet")
		return nil
	}
	return transactionTable(pr, d.Recent).Render()
}
