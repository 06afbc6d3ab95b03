package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awantoch/trellis-mcp/api"
	"github.com/awantoch/trellis-mcp/config"
	"github.com/awantoch/trellis-mcp/mcp"
	"github.com/awantoch/trellis-mcp/telemetry"
	"github.com/awantoch/trellis-mcp/utils"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		stdio bool
		addr  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Trellis tools over MCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := telemetry.Init(ctx, cfg.Tracing)
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(sctx); err != nil {
					utils.Warn("tracing shutdown: %v", err)
				}
			}()

			ops := startOpsServer(cfg, svc)
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = ops.Shutdown(sctx)
			}()

			return mcp.Serve(ctx, mcp.Options{Stdio: stdio, Addr: addr, Debug: cfg.Debug}, api.GenerateMCPTools(svc))
		},
	}
	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve over stdin/stdout instead of HTTP")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address for HTTP mode (default :PORT)")
	return cmd
}

// startOpsServer runs health, metrics and the REST tool surface on
// cfg.OpsAddr. An empty address disables it.
func startOpsServer(cfg *config.Config, svc *api.Service) *http.Server {
	srv := &http.Server{
		Addr:              cfg.OpsAddr,
		Handler:           api.NewOpsHandler(svc),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.New(&utils.LoggerWriter{Fn: utils.Error, Prefix: "[ops] "}, "", 0),
	}
	if cfg.OpsAddr == "" {
		return srv
	}
	go func() {
		utils.Info("ops server listening on %s", cfg.OpsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("ops server: %v", err)
		}
	}()
	return srv
}
