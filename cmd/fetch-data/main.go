package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	config "trainctl/configs"
	"trainctl/pkg/fetch"
	"trainctl/pkg/logger"
)

// fetch-data pulls the fixed dataset/vocabulary files into the working
// directory ahead of a run, the standalone counterpart of the launcher's
// pre-run fetch (the Makefile `data` target).
func main() {
	force := flag.Bool("force", false, "re-download files that already exist locally")
	dir := flag.String("dir", "", "destination directory (default: TRAINCTL_DATA_DIR)")
	src := flag.String("src", "", "copy from a local directory instead of object storage")
	files := flag.String("files", strings.Join(fetch.FixedFiles, ","), "comma-separated object names")
	flag.Parse()

	cfg := config.LoadConfig()
	if _, err := logger.Init(logger.DefaultConfig("fetch-data")); err != nil {
		logger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	destDir := cfg.DataDir
	if *dir != "" {
		destDir = *dir
	}

	var fetcher fetch.Fetcher
	var err error
	switch {
	case *src != "":
		fetcher = fetch.NewLocalFetcher(*src, *force)
	case cfg.DataBucket != "":
		fetcher, err = fetch.NewS3Fetcher(ctx, fetch.S3FetcherConfig{
			Bucket:          cfg.DataBucket,
			Prefix:          cfg.DataPrefix,
			Region:          cfg.DataRegion,
			Endpoint:        cfg.DataEndpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Force:           *force,
		})
		if err != nil {
			logger.Error("failed to build fetcher", zap.Error(err))
			os.Exit(1)
		}
	default:
		logger.Error("no data source: set TRAINCTL_DATA_BUCKET or pass -src")
		os.Exit(1)
	}

	names := strings.Split(*files, ",")
	if err := fetch.FetchAll(ctx, fetcher, names, destDir); err != nil {
		logger.Error("fetch failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("data files ready", zap.Strings("files", names), zap.String("dir", destDir))
}
