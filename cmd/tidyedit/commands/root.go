// Package commands implements the CLI commands for tidyedit.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tidyedit/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tidyedit",
	Short: "Clean up markup produced by contenteditable editors",
	Long: `Tidyedit normalizes the innerHTML that browsers produce for
contenteditable regions: it unwraps divs, drops line breaks and &nbsp;,
and recursively prunes empty em, strong and p elements.

Examples:
  # Clean a file with the default pipeline
  tidyedit clean note.html

  # Clean stdin and print a JSON stats report to stderr
  echo '<div><em></em>Hello</div>' | tidyedit clean --stats --stats-format json

  # Use a custom pipeline and convert to Markdown
  tidyedit clean --pipeline pipeline.yaml --format markdown note.html

  # Rewrite files in place whenever they change
  tidyedit clean --in-place --watch notes/*.html`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.tidyedit.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".tidyedit")
		viper.SetConfigType("yaml")
	}

	// TIDYEDIT_PRESET, TIDYEDIT_DEBUG, ...
	viper.SetEnvPrefix("TIDYEDIT")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// initLogger configures logging from the global flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
