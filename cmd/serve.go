package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vcinsight/dealpipe/internal/auth"
	"github.com/vcinsight/dealpipe/internal/pipeline"
	"github.com/vcinsight/dealpipe/internal/priors"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deal-analysis HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		priorStore, err := priors.Open(ctx, cfg.Priors)
		if err != nil {
			return err
		}
		defer priorStore.Close()

		pipe := pipeline.New(
			anthropic.NewClient(cfg.Anthropic.Key),
			cfg.Anthropic,
			cfg.Pipeline,
			priorStore,
		)
		authn := auth.NewStaticTokens(cfg.Server.APITokens)

		router := newRouter(pipe, authn, cfg.Server.CORSOrigins, cfg.Pipeline.RequireAuthOnVerdict)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter assembles the chi router with CORS, request IDs, and the two
// analysis endpoints.
func newRouter(pipe *pipeline.Pipeline, authn auth.Authenticator, corsOrigins []string, requireAuthOnVerdict bool) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(requestIDMiddleware)

	r.Get("/health", healthHandler)
	r.Post("/api/analyze/snapshot", snapshotHandler(pipe, authn))
	r.Post("/api/analyze/verdict", verdictHandler(pipe, authn, requireAuthOnVerdict))

	return r
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
