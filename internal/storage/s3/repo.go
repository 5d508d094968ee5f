// Package s3 publishes the CLDF directory to an S3-compatible bucket (AWS S3
// or MinIO). Tables are staged on local disk by the csvdir sink and every
// produced file is uploaded once the dataset is committed.
//
// The DSN selects the destination:
//
//	s3://bucket/prefix?region=eu-central-1&endpoint=http://minio:9000&path_style=true
//
// Credentials come from the default AWS chain (AWS_ACCESS_KEY_ID etc.).
package s3

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"phonotactics/internal/storage/csvdir"
)

// Config holds the bucket destination.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional; custom endpoint such as MinIO
	PathStyle bool
	// Staging is the local directory tables are written to before upload.
	// Empty means a temporary directory removed on Close.
	Staging string
}

// ParseDSN decodes an s3:// URL into a Config.
func ParseDSN(dsn string) (Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Config{}, fmt.Errorf("s3: parse dsn: %w", err)
	}
	if u.Scheme != "s3" {
		return Config{}, fmt.Errorf("s3: dsn scheme must be s3://, got %q", u.Scheme)
	}
	if u.Host == "" {
		return Config{}, fmt.Errorf("s3: dsn has no bucket")
	}
	q := u.Query()
	cfg := Config{
		Bucket:   u.Host,
		Prefix:   strings.Trim(u.Path, "/"),
		Region:   q.Get("region"),
		Endpoint: q.Get("endpoint"),
	}
	if ps := q.Get("path_style"); ps != "" {
		if cfg.PathStyle, err = strconv.ParseBool(ps); err != nil {
			return Config{}, fmt.Errorf("s3: path_style: %w", err)
		}
	}
	return cfg, nil
}

// putter is the part of *s3.Client the sink needs.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Repository stages tables with csvdir and uploads them on Commit.
type Repository struct {
	*csvdir.Repository

	client  putter
	cfg     Config
	cleanup bool
}

// NewRepository builds an S3 client from the default AWS configuration.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newRepository(ctx, cfg, client)
}

func newRepository(ctx context.Context, cfg Config, client putter) (*Repository, error) {
	r := &Repository{client: client, cfg: cfg}
	dir := cfg.Staging
	if dir == "" {
		tmp, err := os.MkdirTemp("", "phonotactics-s3-*")
		if err != nil {
			return nil, fmt.Errorf("s3: staging dir: %w", err)
		}
		dir, r.cleanup = tmp, true
	}
	stage, err := csvdir.NewRepository(ctx, csvdir.Config{Dir: dir})
	if err != nil {
		if r.cleanup {
			os.RemoveAll(dir)
		}
		return nil, err
	}
	r.Repository = stage
	return r, nil
}

// Commit finalizes the staged directory and uploads every file under the
// configured prefix.
func (r *Repository) Commit(ctx context.Context) error {
	if err := r.Repository.Commit(ctx); err != nil {
		return err
	}
	for _, name := range r.Files() {
		if err := r.upload(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) upload(ctx context.Context, name string) error {
	f, err := os.Open(filepath.Join(r.Dir(), name))
	if err != nil {
		return fmt.Errorf("s3: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("s3: %w", err)
	}

	key := path.Join(r.cfg.Prefix, name)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(st.Size()),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("s3: put s3://%s/%s: %w", r.cfg.Bucket, key, err)
	}
	log.Printf("s3: uploaded s3://%s/%s bytes=%d", r.cfg.Bucket, key, st.Size())
	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "text/plain"
	}
}

// Close releases staged files; a temporary staging directory is removed.
func (r *Repository) Close() {
	r.Repository.Close()
	if r.cleanup {
		os.RemoveAll(r.Dir())
	}
}
