package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/internal/database"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/repository"
	"github.com/dropradar/dropstack/internal/tracing"
	"github.com/dropradar/dropstack/server"
	"github.com/dropradar/dropstack/services"
)

func main() {
	app := &cli.App{
		Name:  "dropstack",
		Usage: "discovers, scores and validates domains about to drop",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Run database migrations",
				Action: runMigrate,
			},
			{
				Name:   "server",
				Usage:  "Start the API server and scheduled jobs",
				Action: runServer,
			},
			{
				Name:   "ingest",
				Usage:  "Run one ingestion pass and exit",
				Action: runIngest,
			},
			{
				Name:   "sweep",
				Usage:  "Run one lifecycle reconciliation sweep and exit",
				Action: runSweep,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, fmt.Errorf("config initialization failed: %w", err)
	}
	return cfg, nil
}

func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.InitDropstackDatabase(&database.DatabaseConfig{
		DBName:          cfg.DatabaseConfig.DBName,
		Host:            cfg.DatabaseConfig.Host,
		Port:            cfg.DatabaseConfig.Port,
		User:            cfg.DatabaseConfig.User,
		Password:        cfg.DatabaseConfig.Password,
		MaxConn:         cfg.DatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.DatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.DatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.DatabaseConfig.LogLevel,
		SSLMode:         cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}
	return db, nil
}

func runMigrate(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.Exit(err, 1)
	}
	db, err := connectDatabase(cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := repository.MigrateDB(cfg.DatabaseConfig, db); err != nil {
		return cli.Exit(fmt.Errorf("database migration failed: %w", err), 1)
	}
	log.Println("Database migration completed successfully")
	return nil
}

func runServer(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.Exit(err, 1)
	}
	db, err := connectDatabase(cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Dropstack starting up...")

	srv, err := server.NewServer(cfg, db)
	if err != nil {
		return cli.Exit(fmt.Errorf("server setup failed: %w", err), 1)
	}

	if err := srv.Run(); err != nil {
		return cli.Exit(fmt.Errorf("server startup failed: %w", err), 1)
	}

	log.Println("Shutdown complete")
	return nil
}

func runIngest(c *cli.Context) error {
	svcs, closer, err := oneShotServices()
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	summary, err := svcs.IngestService.Run(context.Background())
	if err != nil {
		// a feed/auth failure is fatal to the run by design
		return cli.Exit(fmt.Errorf("ingestion run failed: %w", err), 1)
	}

	log.Printf("Ingestion run completed: %d fetched, %d accepted (%d premium / %d good / %d average), %d low score, %d registered",
		summary.Fetched, summary.Accepted, summary.Premium, summary.Good, summary.Average, summary.LowScore, summary.Registered)
	return nil
}

func runSweep(c *cli.Context) error {
	svcs, closer, err := oneShotServices()
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	summary, err := svcs.SweepService.Run(context.Background())
	if err != nil {
		return cli.Exit(fmt.Errorf("sweep run failed: %w", err), 1)
	}

	log.Printf("Sweep completed: %d scanned, %d updated, %d dropped purged, %d out-of-scope purged",
		summary.Scanned, summary.Updated, summary.PurgedDropped, summary.PurgedScope)
	return nil
}

// oneShotServices wires the full service stack for a single batch command
func oneShotServices() (*services.Services, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := connectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	tracer, tracerCloser, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("could not initialize jaeger tracer: %w", err)
	}
	opentracing.SetGlobalTracer(tracer)

	repos := repository.InitRepositories(db)
	svcs, err := services.InitServices(cfg, appLogger, repos)
	if err != nil {
		closeQuietly(tracerCloser)
		return nil, nil, err
	}

	closer := func() {
		if svcs.EventPublisher != nil {
			_ = svcs.EventPublisher.Close()
		}
		closeQuietly(tracerCloser)
	}
	return svcs, closer, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
