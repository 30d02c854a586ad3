package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/htmlclean"
	"github.com/njchilds90/htmlclean/internal/config"
	"github.com/njchilds90/htmlclean/internal/log"
	"github.com/njchilds90/htmlclean/render"
)

// Version information (set via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags
var (
	configFile   string
	unauthorized string
	filter       bool
	logLevel     string
	logFormat    string
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitConfig  = 3
)

// overrideExitCode is set by check-config so main() can exit after
// cobra finishes. -1 means "use default".
var overrideExitCode = -1

var rootCmd = &cobra.Command{
	Use:   "htmlclean [file...]",
	Short: "Sanitize raw HTML fragments against a tag allowlist",
	Long: `Read text containing raw HTML fragments and write it back with every
tag checked against an allowlist policy.

Allowed tags are rebuilt with only their permitted attributes; href and
src values must use http, https or ftp. Disallowed tags are dropped,
escaped or kept according to --unauthorized. Text outside tags is
copied unchanged.

With no file arguments, standard input is read.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClean,
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate configuration file",
	Long: `Load and validate the configuration file.

Exit codes:
  0 = Configuration is valid
  3 = Configuration error`,
	Args: cobra.NoArgs,
	RunE: runCheckConfig,
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective policy as YAML",
	Args:  cobra.NoArgs,
	RunE:  runPolicy,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to configuration file (default policy when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error) - overrides config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format (json, console) - overrides config file")

	rootCmd.Flags().StringVar(&unauthorized, "unauthorized", "",
		"What to do with disallowed tags (drop, escape, keep) - overrides config file")
	rootCmd.Flags().BoolVar(&filter, "filter", false,
		"Escape all remaining markup after sanitizing")

	rootCmd.AddCommand(checkConfigCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	if overrideExitCode >= 0 {
		os.Exit(overrideExitCode)
	}
}

// loadConfig reads the configuration file, or returns the defaults when
// none was given, and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configFile == "" {
		cfg = config.DefaultConfig()
		cfg.ApplyEnvOverrides()
	} else {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	if unauthorized != "" {
		cfg.Unauthorized = unauthorized
	}
	if filter {
		cfg.Filter = true
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// runClean sanitizes each named file, or stdin, to stdout.
func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := log.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	opts := render.Options{
		Sanitize: true,
		Filter:   cfg.Filter,
		Policy:   cfg.BuildPolicy(),
	}

	if len(args) == 0 {
		return cleanStream(cmd.InOrStdin(), cmd.OutOrStdout(), "-", opts, cfg.Fallback(), logger)
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		err = cleanStream(f, cmd.OutOrStdout(), path, opts, cfg.Fallback(), logger)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func cleanStream(r io.Reader, w io.Writer, name string, opts render.Options, fallback htmlclean.Fallback, logger zerolog.Logger) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	rejected := 0
	opts.Fallback = func(raw string) string {
		rejected++
		logger.Debug().Str("input", name).Str("tag", raw).Msg("disallowed tag")
		return fallback(raw)
	}

	out := render.InlineHTML(string(data), opts)
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Debug().
		Str("input", name).
		Int("bytes_in", len(data)).
		Int("bytes_out", len(out)).
		Int("rejected", rejected).
		Msg("sanitized")
	return nil
}

// runCheckConfig validates the configuration file
func runCheckConfig(cmd *cobra.Command, args []string) error {
	w := io.Writer(os.Stdout)
	if cmd != nil {
		w = cmd.OutOrStdout()
	}

	if configFile == "" {
		fmt.Fprintln(w, "No configuration file given")
		overrideExitCode = ExitConfig
		return nil
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(w, "Configuration is invalid: %v\n", err)
		overrideExitCode = ExitConfig
		return nil
	}

	fmt.Fprintln(w, "Configuration is valid")
	fmt.Fprintf(w, "  Tags:          %d\n", len(cfg.BuildPolicy().Tags()))
	fmt.Fprintf(w, "  Unauthorized:  %s\n", cfg.Unauthorized)
	fmt.Fprintf(w, "  Quote style:   %s\n", cfg.QuoteStyle)
	overrideExitCode = ExitSuccess
	return nil
}

// runPolicy prints the effective tag table
func runPolicy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg.BuildPolicy().Table())
	if err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// runVersion displays version information
func runVersion(cmd *cobra.Command, args []string) {
	w := io.Writer(os.Stdout)
	if cmd != nil {
		w = cmd.OutOrStdout()
	}
	fmt.Fprintf(w, "htmlclean %s (commit %s, built %s)\n", version, commit, buildDate)
}
