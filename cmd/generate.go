package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rana718/hospigen/internal/config"
	"github.com/Rana718/hospigen/internal/export"
	"github.com/Rana718/hospigen/internal/seeder"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genTotal   int
	genOutput  string
	genFormat  string
	genSeed    uint64
	genWeights string
	genLoad    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the full hospital dataset",
	Long: `Generate every T_RHSTU_* table in dependency order.

Per-table row counts come from the total budget and the weight table. Tables
in the same stage are generated concurrently; the first failure aborts the run.
If fewer rows than the total were produced, the fill table is topped up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		applyGenerateFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runID := uuid.NewString()
		logger = logger.With(zap.String("run_id", runID))

		targets, err := loadTargets(cfg)
		if err != nil {
			return err
		}
		opts, err := sources(cfg, logger)
		if err != nil {
			return err
		}
		if opts.Seed == 0 {
			opts.Seed = rand.Uint64()
		}

		sink, err := buildSink(ctx, cfg, runID, logger)
		if err != nil {
			return err
		}
		defer sink.Close()

		opts.Targets = targets
		opts.Sink = sink
		opts.RunID = runID

		s, err := seeder.New(opts)
		if err != nil {
			return err
		}

		color.Cyan("🏥 Generating %d rows into %s (seed %d)", cfg.Total, cfg.OutputDir, opts.Seed)
		summary, err := s.Run(ctx)
		if err != nil {
			color.Red("❌ Generation failed")
			return err
		}
		summary.Print(color.Output)
		return nil
	},
}

func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("total") {
		cfg.Total = genTotal
	}
	if flags.Changed("output") {
		cfg.OutputDir = genOutput
	}
	if flags.Changed("format") {
		cfg.Format = genFormat
	}
	if flags.Changed("seed") {
		cfg.Seed = genSeed
	}
	if flags.Changed("weights") {
		cfg.WeightsFile = genWeights
	}
}

// buildSink opens the file writer for the configured format and, with
// --load, the database sink alongside it.
func buildSink(ctx context.Context, cfg *config.Config, runID string, logger *zap.Logger) (export.Sink, error) {
	var file export.Sink
	switch cfg.Format {
	case "csv":
		file = export.NewCSVWriter(cfg.OutputDir, cfg.CSVDelimiter, logger)
	default:
		file = export.NewSQLWriter(cfg.OutputDir, cfg.BatchSize, runID, logger)
	}
	if !genLoad {
		return file, nil
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}
	db, err := export.NewDatabaseSink(ctx, cfg.Database.Provider, dbURL, cfg.BatchSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return export.MultiSink{file, db}, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVar(&genTotal, "total", config.DefaultTotal, "Total number of rows across all tables")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "data", "Output directory")
	generateCmd.Flags().StringVar(&genFormat, "format", "sql", "Output format (sql, csv)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Random seed (0 picks one)")
	generateCmd.Flags().StringVar(&genWeights, "weights", "", "YAML file overriding table weights")
	generateCmd.Flags().BoolVar(&genLoad, "load", false, "Also load rows into the configured database")
}
