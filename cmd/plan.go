package cmd

import (
	"fmt"

	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/seeder"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var planTotal int

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show per-table targets and the generation stages",
	Long: `Compute the per-table row targets for the configured total and print the
stage layout. The pool constraints are checked exactly as in generate, so a
plan that fails here would fail before any row is generated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cmd.Flags().Changed("total") {
			cfg.Total = planTotal
		}
		targets, err := loadTargets(cfg)
		if err != nil {
			return err
		}

		opts, err := sources(cfg, logger)
		if err != nil {
			return err
		}
		opts.Targets = targets

		stages, err := seeder.Plan(opts)
		if err != nil {
			return err
		}

		color.Cyan("📊 Targets for %s rows", humanize.Comma(int64(cfg.Total)))
		for i, stage := range stages {
			fmt.Println()
			color.Cyan("📋 Stage %d", i)
			for _, name := range stage {
				fixed := ""
				if planner.IsFixed(name) {
					fixed = " (fixed)"
				}
				fmt.Printf("  %-22s %12s%s\n", name, humanize.Comma(int64(targets.Get(name))), fixed)
			}
		}

		fmt.Println()
		planned := targets.Sum()
		color.Green("✅ %s rows planned, %s left for the %s top-up",
			humanize.Comma(int64(planned)), humanize.Comma(int64(max(cfg.Total-planned, 0))), cfg.FillTable)
		if cfg.Geography.Source == "ibge" {
			color.Yellow("⚠️  Geography comes from IBGE: state, city and neighborhood targets are informational")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().IntVar(&planTotal, "total", 0, "Total number of rows (default from config)")
}
