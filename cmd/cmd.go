// Package cmd defines the command-line interface for mergerisk.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("lookback", "d", contract.DefaultLookbackDays, "Days of merged activity to analyze")
	rootCmd.PersistentFlags().Float64P("threshold", "t", contract.DefaultThreshold, "Escalation threshold between 0 and 1 (inclusive)")
	rootCmd.PersistentFlags().IntP("concurrency", "c", contract.DefaultConcurrency, "Number of concurrent escalation calls per group")
	rootCmd.PersistentFlags().Int("group-delay", int(contract.DefaultGroupDelay.Milliseconds()), "Pause between escalation groups in milliseconds")
	rootCmd.PersistentFlags().Int("call-timeout", int(contract.DefaultCallTimeout.Seconds()), "Timeout per escalation call in seconds (0 = none)")
	rootCmd.PersistentFlags().Bool("no-escalate", false, "Skip qualitative escalation and report formula scores only")
	rootCmd.PersistentFlags().String("model", contract.DefaultModel, "Model used for qualitative analysis")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or markdown or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-change metadata (lines, files, merge time)")
	rootCmd.PersistentFlags().Bool("explain", false, "Print per-change score breakdown")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Activity cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql backends")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
