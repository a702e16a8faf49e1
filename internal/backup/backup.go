package backup

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled      bool   `toml:"enabled"`
	Endpoint     string `toml:"endpoint"`
	Region       string `toml:"region"`
	Bucket       string `toml:"bucket"`
	Prefix       string `toml:"prefix"`
	AccessKey    string `toml:"access_key"`
	AccessSecret string `toml:"access_secret"`
	UsePathStyle bool   `toml:"use_path_style"`
}

type uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Exporter produces the snapshot that is uploaded.
type Exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// Backup uploads rating snapshots to an S3 compatible bucket.
type Backup struct {
	client   uploader
	exporter Exporter
	bucket   string
	prefix   string
	log      *logrus.Entry

	now func() time.Time
}

// NewClient builds an S3 client for cfg. A custom endpoint allows R2, MinIO
// and other S3 compatible stores.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.AccessSecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

func New(l *logrus.Logger, client uploader, exporter Exporter, cfg Config) *Backup {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "backups"
	}
	return &Backup{
		client:   client,
		exporter: exporter,
		bucket:   cfg.Bucket,
		prefix:   prefix,
		log: l.WithFields(map[string]interface{}{
			"from": "backup",
		}),
		now: time.Now,
	}
}

// Run uploads a fresh snapshot and returns its object key.
func (b *Backup) Run(ctx context.Context) (string, error) {
	data, err := b.exporter.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export profiles: %w", err)
	}
	key := path.Join(b.prefix, b.now().UTC().Format("20060102T150405Z")+".json")
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3 bucket: %w", key, err)
	}
	b.log.WithFields(logrus.Fields{
		"key":   key,
		"bytes": len(data),
	}).Info("backup uploaded")
	return key, nil
}
