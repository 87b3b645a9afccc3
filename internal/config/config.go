package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Total         int       `json:"total" mapstructure:"total"`
	OutputDir     string    `json:"output_dir" mapstructure:"output_dir"`
	Format        string    `json:"format" mapstructure:"format"` // sql or csv
	BatchSize     int       `json:"batch_size" mapstructure:"batch_size"`
	CSVDelimiter  string    `json:"csv_delimiter" mapstructure:"csv_delimiter"`
	Seed          uint64    `json:"seed" mapstructure:"seed"` // 0 = random
	WeightsFile   string    `json:"weights_file" mapstructure:"weights_file"`
	ReferenceFile string    `json:"reference_file" mapstructure:"reference_file"`
	FillTable     string    `json:"fill_table" mapstructure:"fill_table"`
	CreatedBy     string    `json:"created_by" mapstructure:"created_by"`
	Geography     Geography `json:"geography" mapstructure:"geography"`
	Catalog       Catalog   `json:"catalog" mapstructure:"catalog"`
	Database      Database  `json:"database" mapstructure:"database"`
	Log           Log       `json:"log" mapstructure:"log"`
}

type Geography struct {
	Source  string `json:"source" mapstructure:"source"` // ibge or synthetic
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

type Catalog struct {
	Source       string        `json:"source" mapstructure:"source"` // anvisa or synthetic
	BaseURL      string        `json:"base_url" mapstructure:"base_url"`
	PageSize     int           `json:"page_size" mapstructure:"page_size"`
	MaxRetries   int           `json:"max_retries" mapstructure:"max_retries"`
	InitialDelay time.Duration `json:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay" mapstructure:"max_delay"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Log struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

const (
	DefaultTotal        = 10_000_000
	DefaultBatchSize    = 200
	DefaultIBGEBaseURL  = "https://servicodados.ibge.gov.br/api/v1/localidades"
	DefaultANVISABase   = "https://consultas.anvisa.gov.br"
	DefaultCatalogPages = 100
)

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with every default filled in, without consulting viper.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Total == 0 {
		c.Total = DefaultTotal
	}
	if c.OutputDir == "" {
		c.OutputDir = "data"
	}
	if c.Format == "" {
		c.Format = "sql"
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.CSVDelimiter == "" {
		c.CSVDelimiter = ";"
	}
	if c.ReferenceFile == "" {
		c.ReferenceFile = "Codigos_Nacionais.csv"
	}
	if c.FillTable == "" {
		c.FillTable = "patient"
	}
	if c.CreatedBy == "" {
		c.CreatedBy = "1"
	}
	if c.Geography.Source == "" {
		c.Geography.Source = "ibge"
	}
	if c.Geography.BaseURL == "" {
		c.Geography.BaseURL = DefaultIBGEBaseURL
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = "anvisa"
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = DefaultANVISABase
	}
	if c.Catalog.PageSize == 0 {
		c.Catalog.PageSize = DefaultCatalogPages
	}
	if c.Catalog.MaxRetries == 0 {
		c.Catalog.MaxRetries = 3
	}
	if c.Catalog.InitialDelay == 0 {
		c.Catalog.InitialDelay = 5 * time.Second
	}
	if c.Catalog.MaxDelay == 0 {
		c.Catalog.MaxDelay = time.Minute
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = 60 * time.Second
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	if c.OutputDir == "" || c.OutputDir == "." {
		return nil
	}
	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.OutputDir, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Total < 0 {
		return fmt.Errorf("total cannot be negative: %d", c.Total)
	}
	if !oneOf(c.Format, "sql", "csv") {
		return fmt.Errorf("unsupported output format: %s. Supported formats: [sql csv]", c.Format)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if len([]rune(c.CSVDelimiter)) != 1 {
		return fmt.Errorf("csv_delimiter must be a single character, got %q", c.CSVDelimiter)
	}
	if !oneOf(c.FillTable, "patient", "employee") {
		return fmt.Errorf("fill_table must be patient or employee, got %s", c.FillTable)
	}
	if !oneOf(c.Geography.Source, "ibge", "synthetic") {
		return fmt.Errorf("unsupported geography source: %s", c.Geography.Source)
	}
	if !oneOf(c.Catalog.Source, "anvisa", "synthetic") {
		return fmt.Errorf("unsupported catalog source: %s", c.Catalog.Source)
	}
	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("catalog.max_retries cannot be negative")
	}

	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	if !oneOf(c.Database.Provider, supportedProviders...) {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	return nil
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
