// Package cli provides the command-line interface for the trading application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"algotrader/internal/advice"
	"algotrader/internal/config"
	"algotrader/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Advisor advice.Advisor
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize the advice provider if an OpenAI API key is available
	if cfg.HasOpenAIKey() {
		app.Advisor = advice.NewOpenAIAdvisor(
			cfg.Credentials.OpenAI.APIKey,
			cfg.Advice.Model,
			cfg.Advice.Temperature,
			cfg.Advice.MaxTokens,
		)
		logger.Debug().Str("model", cfg.Advice.Model).Msg("OpenAI advisor initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "algotrader",
		Short: "Algotrader - paper trading dashboard for Indian index options",
		Long: `Algotrader simulates an intraday paper-trading session on NIFTY 50 and
BANK NIFTY index options. It streams simulated quotes, marks open positions
to market each tick, and serves a browser dashboard with AI trade ideas.

Use 'algotrader serve' to start the dashboard server.
Use 'algotrader simulate' to run an offline session in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/algotrader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newStatusCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newSimulateCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Algotrader v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Session Configuration")
	output.Printf("  Tick Interval:   %s\n", cfg.Session.TickInterval)
	output.Printf("  NIFTY Open:      %.2f\n", cfg.Session.NiftyOpen)
	output.Printf("  BANK NIFTY Open: %.2f\n", cfg.Session.BankNiftyOpen)
	output.Printf("  Drift Max:       %.5f\n", cfg.Session.DriftMax)
	output.Println()

	output.Bold("Server Configuration")
	output.Printf("  Listen Addr:     %s\n", cfg.Server.ListenAddr)
	output.Printf("  Shutdown Grace:  %s\n", cfg.Server.ShutdownTimeout)
	output.Println()

	output.Bold("Advice Configuration")
	output.Printf("  Model:           %s\n", cfg.Advice.Model)
	output.Printf("  Temperature:     %.1f\n", cfg.Advice.Temperature)
	output.Printf("  Max Tokens:      %d\n", cfg.Advice.MaxTokens)
	output.Printf("  API Key Set:     %v\n", cfg.HasOpenAIKey())

	return nil
}
