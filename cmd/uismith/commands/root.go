package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uismith/uismith/pkg/llm/loader"
	"github.com/uismith/uismith/pkg/llm/providers"
)

var (
	// Global flags
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "uismith",
	Short: "Multi-model UI generation",
	Long: `uismith - generate web interfaces with multiple language models at once.

Each selected model builds an interface in three dependent stages
(markup, styling, behavior) and streams its progress live, so the
results can be compared side by side.

Provider credentials and model routes are YAML files in the config
directory (one file per provider account):

  kind: openai
  api_key: $OPENAI_API_KEY
  models:
    - name: openai/+
      model: gpt-4o-mini

Default config directory:
  macOS:   ~/Library/Application Support/uismith/models/
  Linux:   ~/.config/uismith/models/

Examples:
  # Serve the playground on :8080
  uismith serve

  # One-shot generation with two models, written to ./out
  uismith gen -m openai/gpt-4o -m gemini/flash -o out "a pomodoro timer"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "model config directory (default: <os config dir>/uismith/models)")
}

// modelConfigDir resolves the directory holding provider config files.
func modelConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "uismith", "models"), nil
}

// loadProviders loads every provider config into a fresh mux and returns
// it with the registered route patterns.
func loadProviders() (*providers.Mux, []string, error) {
	dir, err := modelConfigDir()
	if err != nil {
		return nil, nil, err
	}
	mux := providers.NewMux()
	routes, err := loader.LoadDir(dir, mux)
	if err != nil {
		return nil, nil, fmt.Errorf("load model configs from %s: %w", dir, err)
	}
	if len(routes) == 0 {
		return nil, nil, fmt.Errorf("no models configured in %s", dir)
	}
	return mux, routes, nil
}

func isVerbose() bool { return verbose }
