// chatfit is the terminal storefront client: products, cart, wishlist and
// orders backed by a REST API, with a chat assistant that can mutate server
// state out of band. Cache consistency after such mutations is handled by
// the signal bus and refresh coordinators in internal/.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chatfit/cmd/chatfit/ui"
	"chatfit/internal/app"
	"chatfit/internal/config"
)

var (
	flagConfig   string
	flagBaseURL  string
	flagDebounce int
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:          "chatfit",
	Short:        "Terminal storefront with a chat assistant",
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file path (default ~/.chatfit/config.yaml)")
	rootCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "backend base URL")
	rootCmd.Flags().IntVar(&flagDebounce, "debounce", 0, "refresh debounce window in milliseconds")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "verbose logging")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagDebounce > 0 {
		cfg.DebounceMS = flagDebounce
	}
	if flagDebug {
		cfg.Debug = true
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	a := app.New(cfg, logger)
	a.Start(cmd.Context())
	defer a.Close()

	program := tea.NewProgram(ui.New(a), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// buildLogger writes to a file rather than stderr so log lines never tear the
// TUI. Debug selects the development encoder and level.
func buildLogger(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.OutputPaths = []string{logPath()}
	zcfg.ErrorOutputPaths = zcfg.OutputPaths
	return zcfg.Build()
}

func logPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.DevNull
	}
	dir := home + "/.chatfit"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.DevNull
	}
	return dir + "/chatfit.log"
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
