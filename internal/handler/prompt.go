package handler

import (
	"fmt"
	"os"
	"strings"

	"github.com/set-night/mindcli/internal/config"
	"github.com/spf13/cobra"
)

func (h *Handler) promptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prompt",
		Aliases: []string{"prompts"},
		Short:   "Manage the reusable system prompt library",
	}

	var file string
	publish := &cobra.Command{
		Use:   "publish NAME VERSION [TEXT...]",
		Short: "Create or update a prompt version",
		Args:  cobra.MinimumNArgs(2),
		RunE: h.wrap(func(cmd *cobra.Command, args []string) error {
			return h.handlePromptPublish(cmd, args, file)
		}),
	}
	publish.Flags().StringVarP(&file, "file", "f", "", "read prompt text from file")

	var searchVersion string
	var limit int
	search := &cobra.Command{
		Use:   "search [PATTERN]",
		Short: "Find prompts by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: h.wrap(func(cmd *cobra.Command, args []string) error {
			return h.handlePromptSearch(cmd, args, searchVersion, limit)
		}),
	}
	search.Flags().StringVarP(&searchVersion, "version", "v", "", "exact version")
	search.Flags().IntVarP(&limit, "limit", "l", config.PromptSearchLimit, "maximum results")

	var useVersion string
	use := &cobra.Command{
		Use:   "use NAME",
		Short: "Copy a prompt into the active chat's system prompt",
		Args:  cobra.ExactArgs(1),
		RunE: h.wrap(func(cmd *cobra.Command, args []string) error {
			return h.handlePromptUse(cmd, args[0], useVersion)
		}),
	}
	use.Flags().StringVarP(&useVersion, "version", "v", "", "version (default: latest)")

	cmd.AddCommand(publish, search, use, &cobra.Command{
		Use:   "rm NAME VERSION",
		Short: "Delete a prompt version",
		Args:  cobra.ExactArgs(2),
		RunE:  h.wrap(h.handlePromptRemove),
	})
	return cmd
}

func (h *Handler) handlePromptPublish(cmd *cobra.Command, args []string, file string) error {
	name, version := args[0], args[1]

	content := strings.Join(args[2:], " ")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read prompt file: %w", err)
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		var err error
		content, err = h.term.AskText("Prompt text")
		if err != nil {
			return err
		}
	}

	p, created, err := h.promptService.Publish(cmd.Context(), name, version, content)
	if err != nil {
		return err
	}
	verb := "updated"
	if created {
		verb = "published"
	}
	h.term.PrintLine(fmt.Sprintf("%s %s@%s", verb, p.Name, p.Version))
	return nil
}

func (h *Handler) handlePromptSearch(cmd *cobra.Command, args []string, version string, limit int) error {
	var pattern string
	if len(args) == 1 {
		pattern = args[0]
	}

	prompts, err := h.promptService.Search(cmd.Context(), pattern, version)
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		h.term.Notice("no prompts match %q", pattern)
		return nil
	}
	if limit > 0 && len(prompts) > limit {
		prompts = prompts[:limit]
	}

	for _, p := range prompts {
		h.term.PrintLine(fmt.Sprintf("%s@%s  %s", p.Name, p.Version, snippet(p.Content, 60)))
	}
	return nil
}

func (h *Handler) handlePromptUse(cmd *cobra.Command, name, version string) error {
	p, err := h.session.UsePrompt(cmd.Context(), name, version)
	if err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("system prompt set from %s@%s", p.Name, p.Version))
	return nil
}

func (h *Handler) handlePromptRemove(cmd *cobra.Command, args []string) error {
	if err := h.promptService.Delete(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	h.term.PrintLine(fmt.Sprintf("deleted %s@%s", args[0], args[1]))
	return nil
}

// snippet returns the first line of s cut to n runes.
func snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
