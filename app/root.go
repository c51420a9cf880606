// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/adminconsole/admin-console/internal/config"
	"github.com/adminconsole/admin-console/internal/logger"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "admin-console",
	Short: "admin-console serves the settings and audit api of the admin dashboard",
	Long: `admin-console stores theme, display and system settings, keeps an
activity log of every change and manages the users of the admin dashboard.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc", "directory containing main.toml")
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
