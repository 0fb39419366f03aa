package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/juan-malbeclabs/solana/collector"
	"github.com/juan-malbeclabs/solana/collector/config"
	"github.com/juan-malbeclabs/solana/collector/console"
	"github.com/juan-malbeclabs/solana/collector/store/pgxstore"
	"github.com/juan-malbeclabs/solana/collector/xlsx"
	"github.com/juan-malbeclabs/solana/migrator"
	"github.com/juan-malbeclabs/solana/pkg/ipinfo"
	"github.com/juan-malbeclabs/solana/pkg/logger"
	"github.com/juan-malbeclabs/solana/pkg/pgxdb"
	"github.com/juan-malbeclabs/solana/pkg/solana"
)

// These values are overridden at build time using -ldflags
var (
	version = "dev"
	date    = "unknown"
)

func main() {
	cfg := config.New()

	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	log.InfoContext(ctx, "Starting validator collector",
		slog.String("solanaCLI", cfg.SolanaCLIPath),
		slog.String("cluster", cfg.SolanaCluster),
		slog.String("output", cfg.OutputPath),
		slog.Bool("snapshotStore", cfg.DatabaseURL != ""),
		slog.String("version", version),
		slog.String("date", date),
	)

	err := run(ctx, cfg, log, os.Stdout)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run performs one collection pass and releases every resource before returning.
// Failures are logged here; the caller only decides the exit code.
func run(ctx context.Context, cfg config.Config, log *slog.Logger, stdout io.Writer) error {
	exporters := []collector.Exporter{xlsx.New(cfg.OutputPath, xlsx.WithSheet(cfg.SheetName))}

	if cfg.DatabaseURL != "" {
		db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			log.ErrorContext(ctx, "Failed to connect to database", slog.Any("error", err))
			return err
		}

		store, storeCloser := pgxstore.New(db)
		defer storeCloser()

		applied, err := migrator.ApplyMigrations(db, "")
		if err != nil {
			log.ErrorContext(ctx, "Failed to apply migrations", slog.Any("error", err))
			return err
		}
		log.DebugContext(ctx, "Database migrations applied", slog.Int("applied", applied))

		exporters = append(exporters, store)
	}

	httpClient := &http.Client{
		Timeout:   cfg.HttpClientTimeout,
		Transport: logger.NewTransport(log, nil),
	}
	geo := ipinfo.NewClient(httpClient, cfg.IPInfoAPIURL, cfg.IPInfoToken)
	topology := solana.NewClient(cfg.SolanaCLIPath, solana.WithCluster(cfg.SolanaCluster))

	var summary console.Summary
	logEvent := eventLogging(ctx, log)

	service := collector.NewService(topology, geo, exporters,
		collector.WithEventHandler(func(ev collector.Event) {
			logEvent(ev)
			summary.Handle(ev)
		}),
	)

	// RunFailed is logged by the subscriber
	_, err := service.Run(ctx)
	if cfg.PrintSummary {
		summary.Render(stdout)
	}
	return err
}

// eventLogging logs every lifecycle event using slog directly
func eventLogging(ctx context.Context, log *slog.Logger) func(collector.Event) {
	return collector.NewSubscriber(
		collector.OnRunStarted(func(event collector.RunStarted) {
			log.InfoContext(ctx, "Run started",
				slog.String("runID", event.RunID.String()),
				slog.String("startedAt", event.StartedAt.Format(logger.BritishTimeFormat)),
			)
		}),
		collector.OnTopologyFetched(func(event collector.TopologyFetched) {
			log.InfoContext(ctx, "Cluster topology fetched",
				slog.Int("gossip", event.Gossip),
				slog.Int("validators", event.Validators),
			)
		}),
		collector.OnJoined(func(event collector.Joined) {
			log.InfoContext(ctx, "Nodes joined with validators",
				slog.Int("merged", event.Merged),
				slog.Int("staked", event.Staked),
			)
		}),
		collector.OnNodeEnriched(func(event collector.NodeEnriched) {
			log.InfoContext(ctx, "Node geolocated",
				slog.Int("position", event.Position),
				slog.Int("total", event.Total),
				slog.String("ip", event.IP),
			)
		}),
		collector.OnExported(func(event collector.Exported) {
			log.InfoContext(ctx, "Snapshot exported",
				slog.String("exporter", event.Exporter),
				slog.Int("rows", event.Rows),
				slog.Int("columns", event.Columns),
			)
		}),
		collector.OnRunCompleted(func(event collector.RunCompleted) {
			log.InfoContext(ctx, "Run completed",
				slog.String("runID", event.Report.RunID.String()),
				slog.Int("exported", event.Report.Exported),
				slog.Int("columns", event.Report.Columns),
				slog.Duration("duration", event.Report.Duration),
			)
		}),
		collector.OnRunFailed(func(event collector.RunFailed) {
			log.ErrorContext(ctx, "Run failed", slog.Any("error", event.Err))
		}),
	)
}
