package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"trainctl/pkg/logger"
	"trainctl/pkg/metrics"
)

// FixedFiles are the data objects every training run expects in its
// working directory: the token vocabulary and the tokenized corpus.
var FixedFiles = []string{"vocab.txt", "train.txt"}

// Fetcher retrieves fixed data files into a local directory before a run.
type Fetcher interface {
	// Fetch downloads one object into destDir and returns the local path.
	Fetch(ctx context.Context, name, destDir string) (string, error)
}

// S3Fetcher pulls data files from an S3-compatible bucket.
type S3Fetcher struct {
	client *s3.Client
	bucket string
	prefix string
	force  bool
	log    *zap.Logger
}

// S3FetcherConfig holds object storage configuration.
type S3FetcherConfig struct {
	Bucket          string
	Prefix          string // e.g. "data/"
	Region          string
	Endpoint        string // for MinIO/local S3
	AccessKeyID     string
	SecretAccessKey string
	Force           bool // re-download even when the file exists locally
}

// NewS3Fetcher creates a fetcher against the configured bucket.
func NewS3Fetcher(ctx context.Context, cfg S3FetcherConfig) (*S3Fetcher, error) {
	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	return &S3Fetcher{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		force:  cfg.Force,
		log:    logger.Get(),
	}, nil
}

// Fetch downloads one object from the bucket into destDir. Files already
// present locally are kept unless the fetcher was configured with Force;
// the data files are fixed, so a present file is a finished download.
func (f *S3Fetcher) Fetch(ctx context.Context, name, destDir string) (string, error) {
	dest := filepath.Join(destDir, name)
	if !f.force {
		if _, err := os.Stat(dest); err == nil {
			f.log.Debug("data file present, skipping fetch", zap.String("file", dest))
			metrics.FetchedObjects.WithLabelValues("cached").Inc()
			return dest, nil
		}
	}

	key := f.prefix + name
	output, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.FetchedObjects.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to get s3://%s/%s: %w", f.bucket, key, err)
	}
	defer output.Body.Close()

	n, err := writeFile(dest, output.Body)
	if err != nil {
		metrics.FetchedObjects.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.FetchedObjects.WithLabelValues("downloaded").Inc()
	metrics.FetchedBytes.Add(float64(n))
	f.log.Info("fetched data file",
		zap.String("key", key),
		zap.String("dest", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}

// FetchAll retrieves every named object into destDir.
func FetchAll(ctx context.Context, f Fetcher, names []string, destDir string) error {
	for _, name := range names {
		if _, err := f.Fetch(ctx, name, destDir); err != nil {
			return err
		}
	}
	return nil
}

// LocalFetcher copies data files from a local source directory, for
// development and air-gapped machines.
type LocalFetcher struct {
	srcDir string
	force  bool
}

func NewLocalFetcher(srcDir string, force bool) *LocalFetcher {
	return &LocalFetcher{srcDir: srcDir, force: force}
}

// Fetch copies one file from the source directory into destDir.
func (f *LocalFetcher) Fetch(ctx context.Context, name, destDir string) (string, error) {
	dest := filepath.Join(destDir, name)
	if !f.force {
		if _, err := os.Stat(dest); err == nil {
			metrics.FetchedObjects.WithLabelValues("cached").Inc()
			return dest, nil
		}
	}

	src, err := os.Open(filepath.Join(f.srcDir, name))
	if err != nil {
		metrics.FetchedObjects.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	n, err := writeFile(dest, src)
	if err != nil {
		metrics.FetchedObjects.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.FetchedObjects.WithLabelValues("downloaded").Inc()
	metrics.FetchedBytes.Add(float64(n))
	return dest, nil
}

func writeFile(dest string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("failed to create data directory: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	n, err := io.Copy(out, r)
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return n, nil
}
