package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ibom",
	Short: "OpenTraceBOM - interactive BOM data from KiCad boards",
	Long: `OpenTraceBOM (ibom) reads KiCad PCB files and produces the board
document used by interactive BOM viewers: outline, silkscreen, fabrication
layers, footprints with pads, and optionally tracks, zones and nets.

Settings may also come from a config file (--config) or from IBOM_*
environment variables, e.g. IBOM_INCLUDE_TRACKS=true.

Examples:
  ibom generate board.kicad_pcb -o pcbdata.json     # Write the board document
  ibom generate --include-tracks --include-nets board.kicad_pcb
  ibom info board.kicad_pcb                         # Show board summary
  ibom nets board.kicad_pcb                         # List nets`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportedError marks an error whose message already went to the log.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// reportError prints err unless the logger has shown it.
func reportError(w io.Writer, err error) {
	var reported reportedError
	if errors.As(err, &reported) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	viper.SetEnvPrefix("ibom")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	return nil
}

// newLogger returns the diagnostics logger writing to w. Warnings and
// errors are always shown; --verbose adds skipped items.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose || viper.GetBool("verbose") {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
