package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"plannerd/internal/logging"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the configured transport until ctx is cancelled or the peer
// disconnects. Stdio uses the process's stdin and stdout.
func Serve(ctx context.Context, s *Server, cfg TransportConfig) error {
	switch cfg.Kind {
	case "", TransportStdio:
		return ServeStdio(ctx, s, os.Stdin, os.Stdout)
	case TransportSSE, TransportHTTP:
		ln, err := net.Listen("tcp", cfg.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
		}
		return ServeListener(ctx, s, cfg, ln)
	default:
		return fmt.Errorf("unknown transport %q (want stdio, sse or http)", cfg.Kind)
	}
}

// ServeStdio speaks newline-delimited JSON-RPC over in and out.
func ServeStdio(ctx context.Context, s *Server, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(logging.Root().With(zap.String("category", string(logging.CategoryServer)))))

	logging.Server("serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		logging.Server("stdio transport closed")
		return nil
	}
	return fmt.Errorf("stdio transport: %w", err)
}

// ServeListener serves the SSE or streamable HTTP binding on ln. It closes ln.
func ServeListener(ctx context.Context, s *Server, cfg TransportConfig, ln net.Listener) error {
	var handler http.Handler
	switch cfg.Kind {
	case TransportSSE:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = baseURLFor(ln.Addr())
		}
		handler = server.NewSSEServer(s.mcp, server.WithBaseURL(baseURL))
	case TransportHTTP:
		handler = server.NewStreamableHTTPServer(s.mcp)
	default:
		_ = ln.Close()
		return fmt.Errorf("transport %q does not use a listener", cfg.Kind)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logging.Root()),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Server("serving MCP over %s on %s", cfg.Kind, ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s transport: %w", cfg.Kind, err)
	case <-ctx.Done():
	}

	shutdown(srv, cfg.Kind)
	<-errCh
	logging.Server("%s transport stopped", cfg.Kind)
	return nil
}

// shutdown stops srv. SSE clients hold their event stream open until the
// connection drops, so that binding is closed outright; streamable HTTP is
// drained first.
func shutdown(srv *http.Server, kind string) {
	if kind == TransportSSE {
		if err := srv.Close(); err != nil {
			logging.ServerError("closing sse listener: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.ServerError("graceful shutdown failed: %v", err)
		_ = srv.Close()
	}
}

func baseURLFor(addr net.Addr) string {
	host := addr.String()
	if strings.HasPrefix(host, "[::]:") || strings.HasPrefix(host, "0.0.0.0:") {
		_, port, _ := net.SplitHostPort(host)
		host = net.JoinHostPort("localhost", port)
	}
	return "http://" + host
}
