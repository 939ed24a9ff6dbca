// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the herbal-index CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/herbal-index/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the herbal-index CLI.
var rootCmd = &cobra.Command{
	Use:   "herbal-index",
	Short: "Extract and catalog herbal remedies from disease documents",
	Long: `herbal-index reads loosely formatted herbal remedy documents (plain text,
HTML, or PDF) and turns each numbered disease into a structured record with
its herbs, native names, and preparations.

Use extract to convert a single document, or catalog to keep a searchable
SQLite collection of many documents.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./herbal-index.yaml or ~/.config/herbal-index/herbal-index.yaml)")
	pf.Int("workers", 1, "number of disease blocks parsed in parallel")
	pf.Bool("allow-bare-names", false, "accept herb bullets without an en-dash or parenthesis")
	pf.String("preparation-policy", string(types.PolicyProvisional), "preparation resolver policy: provisional or legacy")
	pf.Duration("timeout", 0, "HTTP request timeout (default 30s)")
	pf.String("catalog-dir", "catalog", "directory holding catalog.db and exports")

	bindFlag("extract.workers", "workers")
	bindFlag("extract.allow_bare_names", "allow-bare-names")
	bindFlag("extract.preparation_policy", "preparation-policy")
	bindFlag("source.timeout", "timeout")
	bindFlag("catalog.dir", "catalog-dir")

	viper.SetDefault("extract.workers", 1)
	viper.SetDefault("extract.allow_bare_names", false)
	viper.SetDefault("extract.preparation_policy", string(types.PolicyProvisional))
	viper.SetDefault("source.timeout", "30s")
	viper.SetDefault("source.user_agent", "herbal-index/"+version)
	viper.SetDefault("source.max_retries", 3)
	viper.SetDefault("source.max_bytes", 16<<20)
	viper.SetDefault("catalog.dir", "catalog")
	viper.SetDefault("catalog.max_results", 20)
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("herbal-index")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "herbal-index"))
		}
	}

	viper.SetEnvPrefix("HERBAL_INDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, env, and file settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if !cfg.Extract.PreparationPolicy.Valid() {
		return types.Config{}, fmt.Errorf("unknown preparation policy %q: use provisional or legacy",
			cfg.Extract.PreparationPolicy)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
