package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/internal/iocache"
	"github.com/mergerisk/mergerisk/schema"
)

// cacheSetup loads minimal configuration needed for cache operations.
// Cache commands skip the full shared setup since they never touch the
// GitHub API or the analyzer.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.CacheBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	mgr, err := iocache.InitStores(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	cacheManager = mgr

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the fetched-activity cache",
	Long: `Manage the cache of fetched pull request activity.

Mergerisk caches the raw payloads fetched from GitHub so repeated runs over
the same window skip the API round trips. Qualitative analysis results are
never cached; escalation always runs fresh.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status - Show cache statistics
  clear  - Remove all cached data

Examples:
  # Check cache status
  mergerisk cache status

  # Clear cache after a token or permission change
  mergerisk cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached activity data",
	Long: `Delete all cached pull request activity from the configured backend.

Use this when cached payloads may be stale, for example after repository
permissions change or history is rewritten.

Examples:
  # Clear SQLite cache (default)
  mergerisk cache clear

  # Clear MySQL cache (set connection string via env variable)
  MERGERISK_CACHE_BACKEND=mysql MERGERISK_CACHE_DB_CONNECT="..." mergerisk cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cacheManager.GetActivityStore().Clear(); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics",
	Long: `Show the configured cache backend and how many fetch windows it holds.

Examples:
  # Check cache status
  mergerisk cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := cacheManager.GetActivityStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
