// Command coursesync imports the open course catalog into the course table.
//
// By default it downloads CATALOG_URL, archives the raw payload to S3 and upserts every course.
// With -snapshot it re-imports a previously archived payload instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/joho/godotenv"
	"github.com/studybuddy-api/internal/application/course"
	"github.com/studybuddy-api/internal/config"
	"github.com/studybuddy-api/internal/infrastructure/dynamo"
	s3infra "github.com/studybuddy-api/internal/infrastructure/s3"
	"github.com/studybuddy-api/internal/pkg/logger"
)

const fetchTimeout = 2 * time.Minute

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.SetupDefault(os.Stderr, cfg.LogLevel)

	url := flag.String("url", cfg.CatalogURL, "catalog JSON URL")
	snapshot := flag.String("snapshot", "", "re-import an archived snapshot key instead of downloading")
	noArchive := flag.Bool("no-archive", false, "skip archiving the downloaded payload")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg, log, *url, *snapshot, !*noArchive)
	if err != nil {
		log.Error("catalog sync failed", "err", err)
		os.Exit(1)
	}
	log.Info("catalog sync done", "fetched", res.Fetched, "stored", res.Stored, "snapshot", res.SnapshotURI)
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, url, snapshot string, archive bool) (course.SyncResult, error) {
	awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return course.SyncResult{}, err
	}
	dynamoClient := dynamo.NewClient(awsCfg, cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	store := s3infra.NewStore(s3infra.NewClient(awsCfg, cfg), cfg.S3BucketName)
	deps := course.SyncerDeps{
		Client: safeClient(),
		Store:  dynamo.NewCourseRepo(dynamoClient, cfg.DynamoTables.Courses),
		Logger: log,
	}
	if archive {
		deps.Archive = store
	}
	syncer := course.NewSyncer(deps)

	if snapshot == "" {
		return syncer.Sync(ctx, url)
	}
	body, err := store.Download(ctx, snapshot)
	if err != nil {
		return course.SyncResult{}, fmt.Errorf("download snapshot %s: %w", snapshot, err)
	}
	defer body.Close()
	res, err := syncer.Import(ctx, body)
	res.SnapshotURI = "s3://" + cfg.S3BucketName + "/" + snapshot
	return res, err
}

// safeClient refuses private, loopback and metadata addresses, even after DNS resolution.
func safeClient() course.HTTPDoer {
	conf := safeurl.GetConfigBuilder().
		SetTimeout(fetchTimeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(conf).Client
}
