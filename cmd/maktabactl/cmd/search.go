package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/query"
	"github.com/spf13/cobra"
)

// searchOptions holds CLI flags for search
type searchOptions struct {
	mode   string
	limit  int
	format string // "text", "json"
}

func newSearchCmd(flags *storeFlags) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a full-text search",
		Long: `Search page text in exact, word or root mode. Latin input is
transliterated into Arabic query variants first.`,
		Example: `  maktabactl search "بسم الله"
  maktabactl search muhammad --mode word --limit 5
  maktabactl search كتب --mode root --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, flags, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(query.ModeExact), "Search mode: exact, word, root")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, flags *storeFlags, q string, opts searchOptions) error {
	mode, ok := query.ParseMode(opts.mode)
	if !ok {
		return fmt.Errorf("unknown mode %q (want exact, word or root)", opts.mode)
	}

	a, err := flags.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	outcome, err := a.Text.Search(ctx, q, mode, opts.limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	results := a.Results.FromHits(ctx, outcome.Hits)

	resp := models.SearchResponse{
		Query:          q,
		Total:          len(results),
		Results:        results,
		Mode:           string(outcome.Mode),
		Transliterated: outcome.Transliterated,
		SearchTerms:    outcome.Variants,
	}
	return writeResponse(cmd.OutOrStdout(), resp, opts.format)
}

func newTopicCmd(flags *storeFlags) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "topic <query>",
		Short: "Run a semantic topic search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := flags.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			q := strings.Join(args, " ")
			pages, err := a.Topic.SearchPages(ctx, q, opts.limit)
			if err != nil {
				return fmt.Errorf("topic search: %w", err)
			}
			results := a.Results.FromScoredPages(ctx, pages)
			return writeResponse(cmd.OutOrStdout(), models.SearchResponse{
				Query:   q,
				Total:   len(results),
				Results: results,
				Mode:    "topic",
			}, opts.format)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func writeResponse(w io.Writer, resp models.SearchResponse, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(resp)
	}

	st := newStyles(w)
	header := fmt.Sprintf("%d results for %q (mode %s)", resp.Total, resp.Query, resp.Mode)
	if resp.Transliterated {
		header += " via " + strings.Join(resp.SearchTerms, " | ")
	}
	if _, err := fmt.Fprintln(w, st.Header.Render(header)); err != nil {
		return err
	}

	for i, r := range resp.Results {
		title := r.BookTitleAr
		if title == "" {
			title = fmt.Sprintf("book %d", r.BookID)
		}
		line := fmt.Sprintf("%2d. %s  %s", i+1,
			st.Title.Render(title),
			st.Dim.Render(fmt.Sprintf("vol %d, p. %d", r.Volume, r.Page)))
		if r.Score != nil {
			line += st.Dim.Render(fmt.Sprintf("  score %.3f", *r.Score))
		}
		if _, err := fmt.Fprintf(w, "%s\n    %s\n    %s\n", line, highlight(r.Snippet, st), st.Dim.Render(r.ShareURL)); err != nil {
			return err
		}
	}
	return nil
}

// highlight renders <mark> spans of a snippet with the mark style
func highlight(snippet string, st styles) string {
	var b strings.Builder
	for {
		before, rest, found := strings.Cut(snippet, "<mark>")
		b.WriteString(before)
		if !found {
			return b.String()
		}
		marked, after, _ := strings.Cut(rest, "</mark>")
		b.WriteString(st.Mark.Render(marked))
		snippet = after
	}
}
