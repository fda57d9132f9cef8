package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/moneymates/internal/api"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().String("static", "", "Directory of the web client to serve (overrides server.static_dir)")
}

// ─── serve ──────────────────────────────────────────────────────────────────

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the JSON API and change stream both profiles' devices connect to.
The server speaks HTTP/1.1 and cleartext HTTP/2 on the same port and stops
gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}
	staticDir, _ := cmd.Flags().GetString("static")
	if staticDir == "" {
		staticDir = cfg.Server.StaticDir
	}
	if staticDir != "" {
		abs, err := filepath.Abs(staticDir)
		if err != nil {
			return fmt.Errorf("failed to resolve static path: %w", err)
		}
		staticDir = abs
		slog.Info("Serving static files", "path", staticDir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	server := api.NewServer(a.svc, a.jwt, a.hub, api.Options{
		Metrics:        cfg.Server.Metrics,
		StaticDir:      staticDir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Wrap with h2c for HTTP/2 without TLS
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(server.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		// Open change streams end with the server context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", addr, "metrics", cfg.Server.Metrics)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		slog.Error("Server failed", "error", err)
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
