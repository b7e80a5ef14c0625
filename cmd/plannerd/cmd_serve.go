package main

import (
	"context"
	"os/signal"
	"syscall"

	"plannerd/internal/llm"
	"plannerd/internal/logging"
	"plannerd/internal/mcp"
	"plannerd/internal/rules"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveTransport  string
	serveAddr       string
	serveWatchRules bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning tools over MCP",
	Long: `Starts the MCP server exposing create_rfc and generate_tasks.

Transports:
  - stdio: newline-delimited JSON-RPC on stdin/stdout (default)
  - sse:   Server-Sent Events on --addr
  - http:  streamable HTTP on --addr

Example:
  plannerd serve --transport http --addr :8080 --watch-rules`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport: stdio, sse or http (default from config)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address for sse and http (default from config)")
	serveCmd.Flags().BoolVar(&serveWatchRules, "watch-rules", false, "Re-validate rules files when they change")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveWatchRules {
		cfg.Rules.Watch = true
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, gen, err := buildService(ctx)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(svc, mcp.Info{Name: cfg.Name, Version: cfg.Version})
	info := srv.Info()
	logging.Boot("%s %s starting: transport=%s model=%s tools=%v",
		info.Name, info.Version, cfg.Server.Transport, cfg.LLM.Model, srv.Tools())

	// The transport ending (peer hung up) also ends the watcher.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Rules.Watch {
		if err := startWatcher(gctx, g); err != nil {
			logging.RulesWarn("rules watcher disabled: %v", err)
		}
	}

	g.Go(func() error {
		defer cancel()
		return mcp.Serve(gctx, srv, mcp.TransportConfig{
			Kind:    cfg.Server.Transport,
			Addr:    cfg.Server.Addr,
			BaseURL: cfg.Server.BaseURL,
		})
	})

	err = g.Wait()
	if tg, ok := gen.(*llm.TracingGenerator); ok {
		stats := tg.Stats()
		logging.API("generation summary: calls=%d failures=%d", stats.Calls, stats.Failures)
	}
	logger.Info("plannerd stopped")
	return err
}

func startWatcher(ctx context.Context, g *errgroup.Group) error {
	w, err := rules.NewWatcher(rules.NewLoader(cfg.Rules.Dir))
	if err != nil {
		return err
	}
	w.SetDebounce(cfg.GetWatchDebounce())
	if err := w.CheckAll(); err != nil {
		logging.RulesWarn("initial rules check failed: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}

	g.Go(func() error {
		<-ctx.Done()
		w.Stop()
		stats := w.Stats()
		logging.Rules("rules watcher summary: validated=%d invalid=%d errors=%d", stats.Validated, stats.Invalid, stats.Errors)
		return nil
	})
	return nil
}
