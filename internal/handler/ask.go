package handler

import (
	"strings"

	"github.com/spf13/cobra"
)

func (h *Handler) askCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask the active chat a question",
		Args:  cobra.ArbitraryArgs,
		RunE:  h.wrap(h.handleAsk),
	}
}

func (h *Handler) handleAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		var err error
		question, err = h.term.AskText("You")
		if err != nil {
			return err
		}
	}

	if err := h.cfg.RequireAPIKey(); err != nil {
		return err
	}

	var onDelta func(string)
	if h.cfg.Stream {
		onDelta = h.term.Delta
	}

	answer, err := h.session.AskOnce(ctx, question, onDelta)
	if err != nil {
		return err
	}

	if h.cfg.Stream {
		h.term.PrintLine("")
	} else {
		h.term.PrintLine(h.term.Render(answer.Text))
	}
	return nil
}
