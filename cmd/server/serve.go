package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "wellhub-backend-go/internal/http"
	"wellhub-backend-go/internal/mockapi"
	"wellhub-backend-go/internal/telemetry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var withMock bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			gen, err := a.generator()
			if err != nil {
				return err
			}
			fixed, err := a.fixedClient()
			if err != nil {
				return err
			}
			source, err := telemetry.NewSource(a.cfg.TelemetrySource, gen, fixed)
			if err != nil {
				return err
			}
			a.log.WithField("source", a.cfg.TelemetrySource).Info("telemetry source selected")

			servers := map[string]*http.Server{
				"api": {
					Addr:              ":" + a.cfg.Port,
					Handler:           httpapi.NewServer(conn, a.cfg, source, a.log).Router(),
					ReadHeaderTimeout: 10 * time.Second,
				},
			}
			if withMock {
				servers["mock-api"] = mockServer(a, gen)
			}
			return runServers(cmd.Context(), a.log, servers)
		},
	}
	cmd.Flags().BoolVar(&withMock, "with-mock", true, "also serve the mock monitoring API on MOCK_API_PORT")
	return cmd
}

func mockAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mock-api",
		Short: "Serve only the mock monitoring API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			gen, err := a.generator()
			if err != nil {
				return err
			}
			return runServers(cmd.Context(), a.log, map[string]*http.Server{"mock-api": mockServer(a, gen)})
		},
	}
}

func mockServer(a *app, gen *telemetry.Generator) *http.Server {
	return &http.Server{
		Addr:              ":" + a.cfg.MockPort,
		Handler:           mockapi.NewServer(gen, a.log.WithField("component", "mock-api")).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runServers serves until SIGINT/SIGTERM or until one server fails, then shuts all down.
func runServers(parent context.Context, log logrus.FieldLogger, servers map[string]*http.Server) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for name, srv := range servers {
		g.Go(func() error {
			log.WithField("server", name).Infof("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for name, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
				log.WithError(err).WithField("server", name).Warn("shutdown")
			}
		}
		return errors.Join(errs...)
	})
	err := g.Wait()
	log.Info("shutdown complete")
	return err
}
