package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"salesiq/internal/config"
	"salesiq/internal/port"
)

type s3Archiver struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3 creates an Archiver that uploads consumed files to S3 and removes the
// local copy. Used for cloud deployments without durable local disks.
func NewS3(cfg *config.ArchiveConfig) (port.Archiver, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &s3Archiver{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}, nil
}

func (a *s3Archiver) Archive(ctx context.Context, tenantID, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	defer f.Close()

	key := path.Join(a.prefix, tenantID, filepath.Base(filePath))
	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("archive upload %s: %w", filepath.Base(filePath), err)
	}
	f.Close()
	return os.Remove(filePath)
}
