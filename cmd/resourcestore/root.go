package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stowlabs/resourcestore/types"
)

var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:   "resourcestore",
	Short: "Schema-described resource store and migration tooling",
	Long: `resourcestore validates schema files, derives naming and relationship
metadata from them, and migrates records out of legacy stores into a
schema-validated resource store.

Configuration sources (in order of precedence):
  1. Command line flags
  2. Environment variables (RESOURCESTORE_*)
  3. Configuration file (./resourcestore.yaml or ~/.resourcestore/resourcestore.yaml)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		return initLogging(cfg.GetString("log-level"))
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("schema", "s", "", "path to the YAML schema file")
	flags.String("log-level", "warn", "log level (debug|info|warn|error)")

	cfg.SetConfigName("resourcestore")
	cfg.SetConfigType("yaml")
	cfg.AddConfigPath(".")
	cfg.AddConfigPath("$HOME/.resourcestore")
	cfg.AutomaticEnv()
	cfg.SetEnvPrefix("RESOURCESTORE")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = cfg.ReadInConfig()
}

// loadSchema reads the schema file named by config or flags.
func loadSchema() (types.Schema, error) {
	path := cfg.GetString("schema")
	if path == "" {
		return types.Schema{}, errMissingSchema
	}
	return types.LoadSchemaFile(path)
}
