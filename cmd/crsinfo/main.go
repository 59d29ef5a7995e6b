// Command crsinfo works with coordinate reference system text: it parses a
// definition in any supported form and re-renders it under another
// convention, searches the registry by name, compares two definitions, and
// reports grid availability.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spatialref/crstext/registry"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "crsinfo [definition]",
	Short: "Parse and convert coordinate reference system text",
	Long: `crsinfo reads a definition in any supported form (the WKT dialects,
PROJ strings, AUTHORITY:CODE pairs, OGC URNs, or object names) and
re-renders it under the requested convention.

Forms that go through the registry (codes, URNs, names, +init expansion)
need a database, found via --registry, the CRSINFO_REGISTRY environment
variable, or the config file.`,
	Example: `  crsinfo EPSG:4326
  crsinfo -o proj4 'GEOGCRS["WGS 84",ENSEMBLE["WGS 84 ensemble",...]]'
  echo '+proj=utm +zone=31 +datum=WGS84' | crsinfo -o wkt2_2018`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/crsinfo/config.yaml)")
	rootCmd.PersistentFlags().StringP("registry", "r", "",
		"path to the registry database")
	rootCmd.PersistentFlags().StringSlice("grid-path", nil,
		"directory searched for grid files (repeatable)")

	_ = viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("grid_paths", rootCmd.PersistentFlags().Lookup("grid-path"))
}

func initConfig() {
	viper.SetEnvPrefix("crsinfo")
	_ = viper.BindEnv("registry")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "crsinfo"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

// openRegistry opens the configured registry database, or returns nil when
// none is configured. Subcommands that cannot work without one say so.
func openRegistry() (*registry.Context, error) {
	path := viper.GetString("registry")
	if path == "" {
		return nil, nil
	}
	ctx, err := registry.Open(path)
	if err != nil {
		return nil, err
	}
	if paths := viper.GetStringSlice("grid_paths"); len(paths) > 0 {
		ctx.SetGridPaths(paths...)
	}
	return ctx, nil
}

func main() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
