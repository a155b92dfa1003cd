// Command mofcheck screens periodic framework structures and prints the
// descriptors as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/config"
	"github.com/katalvlaran/mofcheck/logger"
)

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mofcheck",
	Short: "Screen framework structures for structural problems",
	Long: `mofcheck - structural sanity checks for periodic frameworks.

Reads YAML/JSON structure documents, builds the bonding graph and reports
mis-coordinated atoms, open metal sites, floating molecules, overlaps and
graph fingerprints.

Configuration sources (in order of precedence):
  1. Command line flags
  2. Environment variables (MOFCHECK_* prefix)
  3. Config file (--config)
  4. Default values

Examples:
  mofcheck check zif8.yaml                  # full descriptor set
  mofcheck check -d has_oms,has_metal *.yaml
  mofcheck sites hkust1.yaml                # per-metal open site analysis
  mofcheck descriptors                      # list descriptor names`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(v, cfgFile); err != nil {
			return err
		}
		if err := logger.Init(cfg.Log.Env, cfg.Log.Level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Logger.Debug("configuration loaded",
			zap.String("file", v.ConfigFileUsed()),
			zap.String("strategy", cfg.Graph.Strategy))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("strategy", "", "neighbor strategy: vesta, jmol, minimumdistance, brunner, voronoi")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("graph.strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(descriptorsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads path, when set, into v and unmarshals the result.
func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return config.LoadWithViper(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
