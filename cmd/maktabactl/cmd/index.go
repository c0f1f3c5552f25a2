package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maktaba-search-api/internal/app"
	"github.com/maktaba-search-api/internal/models"
	"github.com/spf13/cobra"
)

// indexOptions holds CLI flags for index
type indexOptions struct {
	works     string
	batchSize int
}

func newIndexCmd(flags *storeFlags) *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index <pages.jsonl>",
		Short: "Load pages into the full-text store",
		Long: `Reads one page per line as JSON ({"id","bookId","volume","page","text"})
and indexes it. Pages already present are replaced. With --works, work titles
({"bookId","titleAr","titleEn"}) are loaded into the sqlite store as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), cmd, flags, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.works, "works", "", "JSONL file of work titles (sqlite store only)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 500, "Pages per indexing batch")
	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, flags *storeFlags, path string, opts indexOptions) error {
	a, err := flags.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.works != "" {
		if err := loadWorks(ctx, a, opts.works); err != nil {
			return err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open pages: %w", err)
	}
	defer f.Close()

	total := 0
	err = readJSONL(f, opts.batchSize, func(batch []models.Page) error {
		if err := a.Indexer.IndexPages(ctx, batch); err != nil {
			return fmt.Errorf("index pages: %w", err)
		}
		total += len(batch)
		slog.Info("index_batch_complete", slog.Int("pages", total))
		return nil
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d pages\n", total)
	return err
}

func loadWorks(ctx context.Context, a *app.App, path string) error {
	if a.Works == nil {
		return errors.New("--works needs the sqlite page store")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open works: %w", err)
	}
	defer f.Close()

	return readJSONL(f, 500, func(batch []models.WorkTitle) error {
		return a.Works.UpsertWorks(ctx, batch)
	})
}

// readJSONL decodes one value per line and hands them to fn in batches.
// Blank lines are skipped
func readJSONL[T any](r io.Reader, batchSize int, fn func([]T) error) error {
	if batchSize < 1 {
		batchSize = 1
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	batch := make([]T, 0, batchSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, v)
		if len(batch) == batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]T, 0, batchSize)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read lines: %w", err)
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
