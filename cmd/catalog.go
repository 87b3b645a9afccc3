package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch the ANVISA medicine catalog and report per-category results",
	Long: `Fetch every regulatory category of the ANVISA bulario concurrently and
report how many items each category returned and which pages were skipped
after exhausting their retries. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		color.Cyan("💊 Fetching catalog from %s", cfg.Catalog.BaseURL)
		res, err := newFetcher(cfg, logger).FetchAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch catalog: %w", err)
		}

		for _, c := range res.Categories {
			line := fmt.Sprintf("  %-40s %4d pages %8s items", c.Description, c.TotalPages, humanize.Comma(int64(c.Items)))
			if len(c.SkippedPages) > 0 {
				color.Yellow("%s  skipped pages %v", line, c.SkippedPages)
				continue
			}
			fmt.Println(line)
		}

		fmt.Println()
		color.Green("✅ %s items from %d categories", humanize.Comma(int64(len(res.Items))), len(res.Categories))
		if len(res.Skipped) > 0 {
			color.Yellow("⚠️  %d pages skipped after retries", len(res.Skipped))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
