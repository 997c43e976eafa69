package cmd

import (
	"io"
	"os"

	"github.com/brendan-ward/geosafe/config"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

// cfg is loaded before any subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "geosafe",
	Short: "Spatial queries over GeoArrow files using GEOS",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Log.Verbose = true
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		level, _ := cfg.LogLevel()
		setupLogging(os.Stderr, level)
		return nil
	},
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging(out *os.File, level zerolog.Level) {
	var writer io.Writer = out
	if isatty.IsTerminal(out.Fd()) {
		writer = zerolog.ConsoleWriter{Out: out}
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger().Level(level)
}
