package main

import (
	"fmt"
	"os"

	"wellhub-backend-go/internal/config"
	"wellhub-backend-go/internal/db"
	"wellhub-backend-go/internal/logs"
	"wellhub-backend-go/internal/migrations"
	"wellhub-backend-go/internal/telemetry"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "wellhub",
		Short: "Well monitoring backend",
		Long: `Serves the well registry API with role based access, proxies telemetry from
the external monitoring system and runs a mock of that system for development.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mockAPICmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createUserCmd())
	rootCmd.AddCommand(setRoleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles what every command needs after startup.
type app struct {
	cfg    config.Config
	log    *logrus.Logger
	closer func() error
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closeLogs, err := logs.New(logs.Options{
		Level:         cfg.LogLevel,
		Format:        cfg.LogFormat,
		Dir:           cfg.LogDir,
		RetentionDays: cfg.LogRetentionDays,
	})
	if err != nil {
		logger.WithError(err).Warn("log file unavailable, logging to stdout only")
	}
	return &app{cfg: cfg, log: logger, closer: closeLogs}, nil
}

func (a *app) Close() {
	_ = a.closer()
}

// openDB connects and brings the schema up to date.
func (a *app) openDB() (*sqlx.DB, error) {
	conn, err := db.Open(a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	applied, err := migrations.Apply(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	for _, version := range applied {
		a.log.WithField("version", version).Info("migration applied")
	}
	return conn, nil
}

func (a *app) generator() (*telemetry.Generator, error) {
	rnd, err := telemetry.NewRand(uint64(a.cfg.Mock.Seed))
	if err != nil {
		return nil, err
	}
	cfg := telemetry.DefaultGeneratorConfig()
	cfg.ListFailureRate = a.cfg.Mock.ListFailureRate
	cfg.HealthFailureRate = a.cfg.Mock.HealthFailureRate
	cfg.QueueDegradedRate = a.cfg.Mock.QueueDegradedRate
	sleep := telemetry.Sleep
	if a.cfg.Mock.DisableDelays {
		sleep = telemetry.NoDelay
	}
	gen := telemetry.NewGenerator(cfg, rnd, sleep)
	gen.Log = a.log.WithField("component", "generator")
	return gen, nil
}

func (a *app) fixedClient() (*telemetry.FixedClient, error) {
	rnd, err := telemetry.NewRand(uint64(a.cfg.External.Seed))
	if err != nil {
		return nil, err
	}
	cfg := telemetry.DefaultFixedClientConfig()
	cfg.APIURL = a.cfg.External.URL
	cfg.APIKey = a.cfg.External.Key
	cfg.Timeout = a.cfg.External.Timeout
	cfg.FetchFailureRate = a.cfg.External.FetchFailureRate
	cfg.HealthFailureRate = a.cfg.External.HealthFailureRate
	sleep := telemetry.Sleep
	if a.cfg.Mock.DisableDelays {
		sleep = telemetry.NoDelay
	}
	client := telemetry.NewFixedClient(cfg, rnd, sleep)
	client.Log = a.log.WithField("component", "external_client")
	return client, nil
}
