package cmd

import (
	"fmt"

	"github.com/Rana718/hospigen/internal/catalog"
	"github.com/Rana718/hospigen/internal/config"
	"github.com/Rana718/hospigen/internal/geography"
	"github.com/Rana718/hospigen/internal/logging"
	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/retry"
	"github.com/Rana718/hospigen/internal/seeder"
	"go.uber.org/zap"
)

// loadConfig reads and validates the configuration, then builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func loadTargets(cfg *config.Config) (planner.Targets, error) {
	weights := planner.DefaultWeights()
	if cfg.WeightsFile != "" {
		w, err := planner.LoadWeights(cfg.WeightsFile)
		if err != nil {
			return nil, err
		}
		weights = w
	}
	return planner.Allocate(cfg.Total, weights)
}

func retryConfig(cfg *config.Config) *retry.Config {
	return &retry.Config{
		MaxRetries:   cfg.Catalog.MaxRetries,
		InitialDelay: cfg.Catalog.InitialDelay,
		MaxDelay:     cfg.Catalog.MaxDelay,
		Multiplier:   2.0,
	}
}

func newFetcher(cfg *config.Config, logger *zap.Logger) *catalog.Fetcher {
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.PageSize, cfg.Catalog.Timeout)
	return catalog.NewFetcher(client, retryConfig(cfg), logger)
}

// sources wires the reference data named by the config into generation
// options. The dialing code file is mandatory.
func sources(cfg *config.Config, logger *zap.Logger) (seeder.Options, error) {
	dialing, err := geography.ReadDialingCodes(cfg.ReferenceFile)
	if err != nil {
		return seeder.Options{}, fmt.Errorf("%w: %v", seeder.ErrConfiguration, err)
	}

	opts := seeder.Options{
		Total:     cfg.Total,
		FillTable: cfg.FillTable,
		Seed:      cfg.Seed,
		CreatedBy: cfg.CreatedBy,
		Dialing:   dialing,
		Logger:    logger,
	}
	if cfg.Geography.Source == "ibge" {
		opts.Geography = geography.NewClient(cfg.Geography.BaseURL, cfg.Catalog.Timeout, logger)
	}
	if cfg.Catalog.Source == "anvisa" {
		opts.Medicines = newFetcher(cfg, logger)
	}
	return opts, nil
}
