package handler

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/ui"
	"github.com/spf13/cobra"
)

func (h *Handler) chatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chat",
		Aliases: []string{"chats"},
		Short:   "Manage chats",
		RunE:    h.wrap(h.handleChatList),
	}

	var count int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recent messages of the active chat",
		Args:  cobra.NoArgs,
		RunE: h.wrap(func(cmd *cobra.Command, args []string) error {
			return h.handleChatHistory(cmd, count)
		}),
	}
	history.Flags().IntVarP(&count, "count", "n", config.DefaultHistoryCount, "number of messages to show")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List chats, active first",
			Args:  cobra.NoArgs,
			RunE:  h.wrap(h.handleChatList),
		},
		&cobra.Command{
			Use:   "switch NAME",
			Short: "Activate a chat, creating it if it does not exist",
			Args:  cobra.ExactArgs(1),
			RunE:  h.wrap(h.handleChatSwitch),
		},
		&cobra.Command{
			Use:   "rm",
			Short: "Delete one of the inactive chats",
			Args:  cobra.NoArgs,
			RunE:  h.wrap(h.handleChatRemove),
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a chat",
			Args:  cobra.ExactArgs(2),
			RunE:  h.wrap(h.handleChatRename),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Clear the message history of the active chat",
			Args:  cobra.NoArgs,
			RunE:  h.wrap(h.handleChatReset),
		},
		history,
	)
	return cmd
}

func (h *Handler) handleChatList(cmd *cobra.Command, args []string) error {
	chats, err := h.chatService.List(cmd.Context())
	if err != nil {
		return err
	}
	sortChats(chats)

	for _, c := range chats {
		h.term.PrintLine(ui.ChatLine(c.Name, c.IsActive, c.LastSelectedAt))
	}
	return nil
}

// sortChats orders the active chat first, then by most recent selection.
func sortChats(chats []domain.Chat) {
	slices.SortStableFunc(chats, func(a, b domain.Chat) int {
		if a.IsActive != b.IsActive {
			if a.IsActive {
				return -1
			}
			return 1
		}
		return cmp.Or(
			b.LastSelectedAt.Compare(a.LastSelectedAt),
			cmp.Compare(a.Name, b.Name),
		)
	})
}

func (h *Handler) handleChatSwitch(cmd *cobra.Command, args []string) error {
	chat, created, err := h.session.SwitchOrCreateChat(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if created {
		h.term.Notice("created chat %q", chat.Name)
	}
	h.term.PrintLine(fmt.Sprintf("active chat: %s", chat.Name))
	return nil
}

func (h *Handler) handleChatRemove(cmd *cobra.Command, args []string) error {
	name, err := h.session.RemoveChat(cmd.Context())
	if err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("deleted chat: %s", name))
	return nil
}

func (h *Handler) handleChatRename(cmd *cobra.Command, args []string) error {
	if err := h.session.RenameChat(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("renamed %s to %s", args[0], args[1]))
	return nil
}

func (h *Handler) handleChatReset(cmd *cobra.Command, args []string) error {
	n, err := h.session.ResetHistory(cmd.Context())
	if err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("cleared %d messages", n))
	return nil
}

func (h *Handler) handleChatHistory(cmd *cobra.Command, count int) error {
	if count <= 0 {
		return domain.ErrInvalidHistoryCount
	}
	msgs, err := h.historyService.HistoryWindow(cmd.Context(), count)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		h.term.Notice("no messages yet")
		return nil
	}
	for _, m := range msgs {
		h.term.PrintLine(ui.MessageLine(string(m.Role), m.CreatedAt))
		h.term.PrintLine(h.term.Render(m.Content))
	}
	return nil
}
