// ABOUTME: Serve command for starting the MCP server.
// ABOUTME: Exposes Pushover capabilities over stdio or HTTP transports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mlgill/pushover-mcp-server/internal/config"
	pushmcp "github.com/mlgill/pushover-mcp-server/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		RunE:  runServe,
	}

	cmd.Flags().String("transport", "stdio", "transport mode: stdio or http")
	cmd.Flags().String("host", "127.0.0.1", "host to bind to (http mode only)")
	cmd.Flags().Int("port", 8000, "port to bind to (http mode only)")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	logger := newLogger(level)

	cfgPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if creds := config.Resolve(cfgPath); !creds.IsValid() {
		logger.Warn("pushover credentials not configured; tools will return errors until they are",
			"config_path", cfgPath)
	}

	store, dbPath, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server, err := pushmcp.NewServer(cfgPath, store, dbPath, logger)
	if err != nil {
		return err
	}
	defer server.Close()

	transport, _ := cmd.Flags().GetString("transport")
	switch transport {
	case "stdio":
		logger.Info("starting MCP server", "transport", "stdio")
		return server.Serve(cmd.Context())
	case "http":
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		return serveHTTP(cmd.Context(), server, net.JoinHostPort(host, strconv.Itoa(port)), logger)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
	}
}

func serveHTTP(ctx context.Context, server *pushmcp.Server, addr string, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting MCP server", "transport", "http", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})
	return slog.New(handler)
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
