// Command plannerd serves the RFC and task planning tools over MCP and offers
// the same operations as one-shot CLI commands.
package main

import (
	"context"
	"fmt"
	"os"

	"plannerd/internal/config"
	"plannerd/internal/llm"
	"plannerd/internal/logging"
	"plannerd/internal/planner"
	"plannerd/internal/rules"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

// newGenerator builds the generation backend. Tests replace it.
var newGenerator = func(ctx context.Context, c *config.Config) (llm.Generator, error) {
	gc := llm.DefaultGeminiConfig(c.LLM.APIKey)
	gc.Model = c.LLM.Model
	gc.Timeout = c.GetLLMTimeout()

	client, err := llm.NewGeminiClient(ctx, gc)
	if err != nil {
		return nil, err
	}
	return llm.NewTracingGenerator(client, client.Model()), nil
}

var rootCmd = &cobra.Command{
	Use:   "plannerd",
	Short: "plannerd - RFC and task planning with Gemini",
	Long: `plannerd drafts RFC documents and task lists with Google Gemini.

Team rules documents (rules/<id>.yaml) shape the prompts. The operations are
served as MCP tools (create_rfc, generate_tasks) by "plannerd serve" and are
also available directly as "plannerd rfc" and "plannerd tasks".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		cfg = loaded

		if err := logging.Initialize(loggingOptions(cfg.Logging)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Root()
		logging.BootDebug("config loaded: path=%q model=%s rules_dir=%s", configPath, cfg.LLM.Model, cfg.Rules.Dir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
	},
}

func loggingOptions(l config.LoggingConfig) logging.Options {
	return logging.Options{
		Level:      l.Level,
		Format:     l.Format,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
		Categories: l.Categories,
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "plannerd.yaml", "Config file (optional)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rfcCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(rulesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildService validates the generation settings and wires the service. The
// generator is returned as well so callers can report on it.
func buildService(ctx context.Context) (*planner.Service, llm.Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return planner.NewService(rules.NewLoader(cfg.Rules.Dir), gen), gen, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
