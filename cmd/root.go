package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.0.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════════╗",
		"║   ██╗  ██╗ ██████╗ ███████╗██████╗ ██╗ ██████╗ ███████╗███╗  ║",
		"║   ██║  ██║██╔═══██╗██╔════╝██╔══██╗██║██╔════╝ ██╔════╝████╗ ║",
		"║   ███████║██║   ██║███████╗██████╔╝██║██║  ███╗█████╗  ██╔██╗║",
		"║   ██╔══██║██║   ██║╚════██║██╔═══╝ ██║██║   ██║██╔══╝  ██║╚██║",
		"║   ██║  ██║╚██████╔╝███████║██║     ██║╚██████╔╝███████╗██║ ╚█║",
		"║   ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝     ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚║",
		"║                                                              ║",
		"║        🏥 Referentially-consistent hospital datasets 🏥      ║",
		"╚══════════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "hospigen",
	Short: "Synthetic data generator for the hospital information system",
	Long: `
hospigen synthesizes a fictitious but FK-consistent dataset for the T_RHSTU_*
hospital tables and writes it as batched INSERT statements or CSV files.

A single total row budget is split across the tables by fixed weights, the
tables are generated stage by stage in dependency order, and the medicine
table is filled from the public ANVISA registry.

Output:
- SQL (batched multi-row INSERT per table)
- CSV (header row, configurable delimiter)
- Direct load into PostgreSQL, MySQL or SQLite (--load)`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("hospigen version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./hospigen.config.json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("hospigen.config")
	}

	viper.SetEnvPrefix("HOSPIGEN")
	viper.AutomaticEnv()

	viper.ReadInConfig()
}
