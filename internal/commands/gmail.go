package commands

import (
	"github.com/spf13/cobra"

	"lumen/internal/services"
)

func newGmailCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Import receipts from Gmail",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether Gmail is connected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			st, err := a.Ingest.GmailStatus(cmd.Context())
			if err != nil {
				return err
			}
			return rt.emit(st, func() error {
				state := "not connected"
				if st.Connected {
					state = "connected"
				}
				rt.printer.Print("Gmail %s, consent %t", rt.printer.Bold(state), st.ConsentEnabled)
				if st.Message != "" {
					rt.printer.Print("%s", rt.printer.Dim(st.Message))
				}
				return nil
			})
		},
	}

	connect := &cobra.Command{
		Use:   "connect",
		Short: "Start the Gmail authorization flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			res, err := a.Ingest.GmailConnect(cmd.Context())
			if err != nil {
				return err
			}
			return rt.emit(res, func() error {
				rt.printer.Info("Open this URL to authorize Gmail access:")
				rt.printer.Print("  %s", res.OAuthURL)
				return nil
			})
		},
	}

	var days int
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Import recent receipts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			res, err := a.Ingest.GmailSync(cmd.Context(), days)
			if err != nil {
				return err
			}
			return rt.emit(res, func() error {
				rt.printer.Print("%s", rt.printer.Dim(itoa64(int64(res.Fetched))+" emails read, "+itoa64(int64(res.Saved))+" transactions saved"))
				return nil
			})
		},
	}
	sync.Flags().IntVar(&days, "days", services.DefaultSyncDays, "how many days back to look")

	cmd.AddCommand(status, connect, sync)
	return cmd
}
