package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/maktaba-search-api/internal/arabic"
	"github.com/maktaba-search-api/internal/config"
	"github.com/maktaba-search-api/internal/references"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text>",
		Short: "Print the normalized form of Arabic text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), arabic.Normalize(strings.Join(args, " ")))
			return err
		},
	}
}

func newTranslitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translit <latin text>",
		Short: "Print the Arabic query variants for Latin input",
		Example: `  maktabactl translit muhammad
  maktabactl translit "al kafi"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			if !arabic.IsLatin(input) {
				return fmt.Errorf("input is not Latin script: %q", input)
			}
			out := cmd.OutOrStdout()
			for _, v := range arabic.Transliterate(input) {
				if _, err := fmt.Fprintln(out, v.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newLinkCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "link [text]",
		Short: "Link verse and catalog citations in text",
		Long: `Rewrites verse and catalog citations as HTML anchors. Text is read
from the arguments, or from standard input when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				text = string(data)
			}

			cfg := config.GetConfig()
			html, refs := references.NewLinker(cfg.QuranBaseURL, cfg.ShareBaseURL).LinkAll(text)

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(map[string]any{"html": html, "references": refs})
			}
			_, err := fmt.Fprintln(out, html)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	return cmd
}
