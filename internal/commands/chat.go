package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/output"
	"lumen/internal/services"
)

func newChatCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the assistant about your finances",
	}

	var sessionID int64
	send := &cobra.Command{
		Use:   "send MESSAGE...",
		Short: "Send a message, starting a conversation when --session is not given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			if sessionID > 0 {
				a.Chat.Use(sessionID)
			}
			reply, err := a.Chat.Send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return rt.emit(reply, func() error {
				rt.printer.Print("%s", reply.Response)
				meta := "session " + itoa64(reply.SessionID)
				if reply.Intent != "" {
					meta += ", " + reply.Intent
				}
				if reply.Provenance != nil && len(reply.Provenance.TransactionIDs) > 0 {
					ids := make([]string, len(reply.Provenance.TransactionIDs))
					for i, id := range reply.Provenance.TransactionIDs {
						ids[i] = itoa64(id)
					}
					meta += ", based on transactions " + strings.Join(ids, ", ")
				}
				rt.printer.Print("%s", rt.printer.Dim(meta))
				return nil
			})
		},
	}
	send.Flags().Int64Var(&sessionID, "session", 0, "continue an existing conversation")

	var (
		historySession int64
		limit          int
	)
	history := &cobra.Command{
		Use:   "history",
		Short: "Show the messages of a conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			h, err := a.Chat.History(cmd.Context(), historySession, limit)
			if err != nil {
				return err
			}
			return rt.emit(h, func() error {
				for _, m := range h.Messages {
					who := rt.printer.Bold(m.Role)
					rt.printer.Print("%s %s  %s", rt.printer.Dim(output.Date(m.Timestamp)), who, m.Content)
				}
				return nil
			})
		},
	}
	history.Flags().Int64Var(&historySession, "session", 0, "conversation id")
	history.Flags().IntVar(&limit, "limit", services.DefaultHistoryLimit, "maximum number of messages")
	_ = history.MarkFlagRequired("session")

	cmd.AddCommand(send, history)
	return cmd
}
