package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"directory-bridge-server/internal/config"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/mcp"
	"directory-bridge-server/internal/transport"
)

func addServeFlags(flags *pflag.FlagSet) {
	flags.String("transport", config.DefaultTransport, "transport: stdio or http")
	flags.String("host", config.DefaultHTTPHost, "HTTP listen host")
	flags.Int("port", config.DefaultHTTPPort, "HTTP listen port")
}

// newServeCmd creates the serve command.
func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve bridge methods over stdio or HTTP",
		Long: `Serve bridge methods until the input closes or a SIGINT/SIGTERM arrives.

With --transport stdio (the default) requests are newline-delimited JSON-RPC
2.0 on stdin and responses go to stdout. With --transport http the server
listens on --host:--port.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	addServeFlags(cmd.Flags())
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.config
	logEffectiveConfig(cfg)

	d, err := a.newDispatcher()
	if err != nil {
		return err
	}
	rpc := transport.NewRPCHandler(d, mcp.NewMCPProcessor(d, version))
	logger.Info("Core services initialized")

	switch cfg.Transport.Type {
	case "http":
		return a.serveHTTP(ctx, transport.NewHTTPHandler(rpc, d, cfg.Transport.HTTP))
	case "stdio":
		logger.Info("Initializing stdin/stdout JSON-RPC transport")
		return transport.NewStdioHandler(rpc).Start(ctx, a.stdin, a.stdout)
	default:
		// Unreachable once the config has been validated.
		return fmt.Errorf("unsupported transport type: %s", cfg.Transport.Type)
	}
}

func (a *app) serveHTTP(ctx context.Context, h *transport.HTTPHandler) error {
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- h.Start()
	}()

	select {
	case err := <-serverDone:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received, stopping HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown error: %v", err)
		return err
	}
	logger.Info("HTTP server gracefully stopped")
	return <-serverDone
}

func logEffectiveConfig(cfg *config.Config) {
	logger.Info("Effective configuration:")
	logger.Info("  Transport: %s", cfg.Transport.Type)
	if cfg.Transport.Type == "http" {
		logger.Info("  HTTP Address: %s", cfg.Transport.HTTP.Addr())
		logger.Info("  Max Request Size (MB): %d", cfg.Transport.HTTP.MaxRequestSizeMB)
	}
	logger.Info("  Dialog Lock Timeout: %s", cfg.Dialog.LockTimeout)
	if cfg.Dialog.Timeout > 0 {
		logger.Info("  Dialog Timeout: %s", cfg.Dialog.Timeout)
	}
	logger.Info("  Strict Enumeration: %t", cfg.Enumeration.Strict)
}
