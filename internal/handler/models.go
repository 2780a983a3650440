package handler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/set-night/mindcli/internal/domain"
	"github.com/spf13/cobra"
)

type sortType string

const (
	sortPriceAsc  sortType = "price"
	sortPriceDesc sortType = "price-desc"
	sortContext   sortType = "context"
	sortName      sortType = "name"
)

type modelsOptions struct {
	search   string
	sortBy   string
	freeOnly bool
	limit    int
}

func (h *Handler) modelsCommand() *cobra.Command {
	var opts modelsOptions
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Browse the provider model catalog",
		Args:  cobra.NoArgs,
		RunE: h.wrap(func(cmd *cobra.Command, args []string) error {
			return h.handleModels(cmd, opts)
		}),
	}
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "filter by id, name or description")
	cmd.Flags().StringVar(&opts.sortBy, "sort", string(sortPriceAsc), "price, price-desc, context or name")
	cmd.Flags().BoolVar(&opts.freeOnly, "free", false, "only free models")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 25, "maximum results")
	return cmd
}

func (h *Handler) handleModels(cmd *cobra.Command, opts modelsOptions) error {
	ctx := cmd.Context()

	allModels, err := h.openRouter.ListModels(ctx)
	if err != nil {
		return err
	}

	current := ""
	if cfg, err := h.configService.Get(ctx); err == nil {
		current = cfg.ModelID
	}

	aiModels := filterModels(allModels, opts.search, opts.freeOnly)
	sortModels(aiModels, sortType(opts.sortBy))
	if opts.limit > 0 && len(aiModels) > opts.limit {
		aiModels = aiModels[:opts.limit]
	}

	if len(aiModels) == 0 {
		h.term.Notice("no models match %q", opts.search)
		return nil
	}

	for _, m := range aiModels {
		mark := " "
		switch {
		case m.ID == current:
			mark = "*"
		case h.cfg.IsAllowedModel(m.ID):
			mark = "+"
		}
		h.term.PrintLine(fmt.Sprintf("%s %-50s %s  ctx %d", mark, m.ID, priceLabel(m), m.ContextLength))
	}
	return nil
}

func filterModels(aiModels []domain.AIModel, query string, freeOnly bool) []domain.AIModel {
	query = strings.ToLower(query)
	var filtered []domain.AIModel
	for _, m := range aiModels {
		if freeOnly && !m.IsFree() {
			continue
		}
		if strings.Contains(strings.ToLower(m.Name), query) ||
			strings.Contains(strings.ToLower(m.ID), query) ||
			strings.Contains(strings.ToLower(m.Description), query) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func sortModels(aiModels []domain.AIModel, s sortType) {
	switch s {
	case sortPriceAsc:
		slices.SortStableFunc(aiModels, func(a, b domain.AIModel) int {
			return a.PromptPrice.Add(a.CompletionPrice).Cmp(b.PromptPrice.Add(b.CompletionPrice))
		})
	case sortPriceDesc:
		slices.SortStableFunc(aiModels, func(a, b domain.AIModel) int {
			return b.PromptPrice.Add(b.CompletionPrice).Cmp(a.PromptPrice.Add(a.CompletionPrice))
		})
	case sortContext:
		slices.SortStableFunc(aiModels, func(a, b domain.AIModel) int {
			return b.ContextLength - a.ContextLength
		})
	case sortName:
		slices.SortStableFunc(aiModels, func(a, b domain.AIModel) int {
			return strings.Compare(a.ID, b.ID)
		})
	}
}

func priceLabel(m domain.AIModel) string {
	if m.IsFree() {
		return "free"
	}
	return fmt.Sprintf("$%s/$%s per 1M", m.PromptPrice.StringFixed(2), m.CompletionPrice.StringFixed(2))
}
