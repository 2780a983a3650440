package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/ui"
	"github.com/spf13/cobra"
)

func (h *Handler) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings of the active chat",
		RunE:  h.wrap(h.handleConfigShow),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the active chat settings",
			Args:  cobra.NoArgs,
			RunE:  h.wrap(h.handleConfigShow),
		},
		&cobra.Command{
			Use:   "prompt [TEXT...]",
			Short: "Set the system prompt",
			Args:  cobra.ArbitraryArgs,
			RunE:  h.wrap(h.handleSetSystemPrompt),
		},
		&cobra.Command{
			Use:   "context",
			Short: "Toggle whether previous messages are sent with each question",
			Args:  cobra.NoArgs,
			RunE:  h.wrap(h.handleToggleContext),
		},
		&cobra.Command{
			Use:   "window N",
			Short: "Set how many previous messages form the context",
			Args:  cobra.ExactArgs(1),
			RunE:  h.wrap(h.handleSetWindow),
		},
		&cobra.Command{
			Use:   "model [ID]",
			Short: "Set the model, or pick one from the allowed list",
			Args:  cobra.MaximumNArgs(1),
			RunE:  h.wrap(h.handleSetModel),
		},
	)
	return cmd
}

func (h *Handler) handleConfigShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	chat, err := h.chatService.Current(ctx)
	if err != nil {
		return err
	}
	cfg, err := h.configService.Get(ctx)
	if err != nil {
		return err
	}
	count, err := h.historyService.Count(ctx)
	if err != nil {
		return err
	}

	h.term.PrintLine(ui.Field("chat", chat.Name))
	h.term.PrintLine(ui.Field("model", cfg.ModelID))
	h.term.PrintLine(ui.Field("include context", onOff(cfg.IncludeContext)))
	h.term.PrintLine(ui.Field("context window", cfg.ContextWindowSize))
	h.term.PrintLine(ui.Field("messages", count))
	h.term.PrintLine(ui.Field("updated", cfg.UpdatedAt.Local().Format("2006-01-02 15:04")))
	h.term.PrintLine(ui.Field("system prompt", ""))
	h.term.PrintLine(cfg.SystemPrompt)
	return nil
}

func (h *Handler) handleSetSystemPrompt(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		var err error
		text, err = h.term.AskText("System prompt")
		if err != nil {
			return err
		}
	}
	if err := h.session.SetSystemPrompt(cmd.Context(), text); err != nil {
		return err
	}
	h.term.PrintLine("system prompt updated")
	return nil
}

func (h *Handler) handleToggleContext(cmd *cobra.Command, args []string) error {
	enabled, err := h.session.ToggleIncludeContext(cmd.Context())
	if err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("include context: %s", onOff(enabled)))
	return nil
}

func (h *Handler) handleSetWindow(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidWindowSize, args[0])
	}
	if err := h.session.SetContextWindowSize(cmd.Context(), n); err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("context window: %d messages", n))
	return nil
}

func (h *Handler) handleSetModel(cmd *cobra.Command, args []string) error {
	var modelID string
	if len(args) == 1 {
		modelID = args[0]
	} else {
		var err error
		modelID, err = h.term.ChooseOne("Select a model", h.cfg.Models)
		if err != nil {
			return err
		}
	}

	if err := h.session.SetModel(cmd.Context(), modelID); err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("model: %s", modelID))
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
