package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	apperrors "github.com/reglet-dev/voyage/internal/application/errors"
	"github.com/reglet-dev/voyage/internal/infrastructure/logging"
	"github.com/reglet-dev/voyage/internal/infrastructure/sensitivedata"
	"github.com/reglet-dev/voyage/internal/infrastructure/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// sysConfig is loaded once in the root pre-run and read by subcommands.
	sysConfig *system.Config

	// sensitiveValues collects resolved secrets so log output can be scrubbed.
	sensitiveValues = sensitivedata.NewProvider()
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "voyage",
	Short: "URL preview service with a literal-hostname SSRF guard",
	Long: `Voyage fetches a caller-supplied URL and returns the first part of its
body. Outbound requests pass a hostname guard that blocks localhost and the
private IPv4 ranges by their literal text. IPv6 literals such as [::1] are
not inspected, which is the bypass this service exists to demonstrate.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadSystemConfig()
		if err != nil {
			return err
		}
		sysConfig = cfg
		return setupLogging(cfg)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.voyage.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("guard-mode", "", "hostname guard: literal or resolved")
	_ = viper.BindPFlag("guard-mode", rootCmd.PersistentFlags().Lookup("guard-mode"))
}

// initConfig locates the config file and enables VOYAGE_* environment overrides.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigFile(filepath.Join(home, ".voyage.yaml"))
	}

	viper.SetEnvPrefix("voyage")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadSystemConfig reads the YAML config and layers flag and environment
// overrides on top of it.
func loadSystemConfig() (*system.Config, error) {
	cfg, err := system.NewConfigLoader().Load(viper.ConfigFileUsed())
	if err != nil {
		return nil, apperrors.NewConfigurationError("system", "failed to load config", err)
	}

	applyOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("system", "invalid configuration", err)
	}
	return cfg, nil
}

// applyOverrides copies explicitly set flags and VOYAGE_* variables into cfg.
func applyOverrides(cfg *system.Config) {
	if viper.IsSet("listen") {
		cfg.Server.Listen = viper.GetString("listen")
	}
	if viper.IsSet("guard-mode") {
		cfg.Guard.Mode = viper.GetString("guard-mode")
	}
	if viper.IsSet("relay-timeout") {
		cfg.Relay.Timeout = viper.GetDuration("relay-timeout")
	}
	if viper.IsSet("follow-redirects") {
		cfg.Relay.FollowRedirects = viper.GetBool("follow-redirects")
	}
}

func setupLogging(cfg *system.Config) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	redactor, err := sensitivedata.New(sensitivedata.Config{
		Provider:        sensitiveValues,
		HashMode:        cfg.Redaction.HashMode.Enabled,
		Salt:            cfg.Redaction.HashMode.Salt,
		Patterns:        cfg.Redaction.Patterns,
		DisableGitleaks: cfg.Redaction.DisableGitleaks,
	})
	if err != nil {
		return fmt.Errorf("failed to build log redactor: %w", err)
	}

	// Text output for CLI friendliness, scrubbed before it reaches stderr
	slog.SetDefault(logging.New(sensitivedata.NewWriter(os.Stderr, redactor), level))
	slog.Debug("configuration loaded", "file", viper.ConfigFileUsed(), "guard_mode", cfg.Guard.GetGuardMode())
	return nil
}
