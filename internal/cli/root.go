package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mkravets/memsieve/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "memsieve",
	Short: "Memsieve - fragment authenticity scoring and retrieval",
	Long: `Memsieve ingests memory documents, splits them into fragments, and
scores each fragment for authenticity before it enters the vector store.

The authenticity heuristic is deliberately adversarial: text constructed
to pass the test (marker stuffing, uniform clinical prose, corporate
optimization language) scores lower than text that carries genuine
emotional texture, causal messiness, and concrete detail.

Retrieval combines vector similarity with authenticity filtering, so
low-quality fragments do not surface just because they match the query.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Memsieve.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("memsieve v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.memsieve/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.memsieve")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Register every default key so environment overrides resolve for
	// the whole tree, not just for keys present in the config file
	registerDefaults()

	// Read in environment variables that match MEMSIEVE_*
	viper.SetEnvPrefix("MEMSIEVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults seeds viper with the full default configuration tree
func registerDefaults() {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var defaults map[string]any
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return
	}
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
}

// loadConfig resolves the effective configuration: defaults, then config
// file, then MEMSIEVE_* environment overrides. The whole tree is merged,
// so every key that config init writes is honored.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring invalid configuration: %v\n", err)
	}

	cfg.Output.Verbose = verbose
	return cfg
}
