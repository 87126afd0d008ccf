package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/census-map/internal/config"
	"github.com/sells-group/census-map/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long:  "Serves profile sessions, density snapshots, the stylized SVG map, styled boundary GeoJSON and basemap tiles.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		e, err := newEngine(cfg)
		if err != nil {
			return err
		}
		if !e.Source.HasRemote() {
			zap.L().Warn("no anthropic key configured, serving projected distributions")
		}
		if cfg.Map.Renderer == config.RendererGeo {
			e.Boundary.Start(ctx)
		}

		reg := session.NewRegistry(e.sessionDeps())
		defer reg.CloseAll()
		if idle := time.Duration(cfg.Server.SessionIdleMins) * time.Minute; idle > 0 {
			go reg.RunSweeper(ctx, time.Minute, idle)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           buildRouter(e, reg, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("renderer", cfg.Map.Renderer),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
