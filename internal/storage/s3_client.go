package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/vinilopesc/vortex-board/internal/config"
)

// UploadURLExpiry is how long a presigned PUT URL stays valid
const UploadURLExpiry = 5 * time.Minute

// S3Client defines the storage operations attachments need. Uploads go
// directly from the browser to the bucket via presigned URLs; the API
// never proxies file bytes.
type S3Client interface {
	GeneratePresignedURL(ctx context.Context, variant, tenant, fileName, contentType string) (uploadURL, fileKey string, err error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

type s3ClientImpl struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string
}

// NewS3Client creates an S3 client from the app config. A non-empty
// Endpoint switches to path-style addressing with static credentials,
// which is what MinIO needs in local development.
func NewS3Client(cfg appconfig.S3Config) (S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 region is required")
	}

	var awsCfg aws.Config
	var err error
	if cfg.Endpoint != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for a custom endpoint")
		}
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:               cfg.Endpoint,
						HostnameImmutable: true,
						SigningRegion:     cfg.Region,
					}, nil
				},
			)),
		)
	} else {
		// default credential chain: IAM role in-cluster, shared config locally
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &s3ClientImpl{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
	}, nil
}

// generateFileKey builds a unique object key:
// vortex/{variant}/{tenant}/{yyyy}/{mm}/{uuid}_{ts}{ext}
func generateFileKey(variant, tenant, fileName string) string {
	now := time.Now()
	return fmt.Sprintf("vortex/%s/%s/%s/%s/%s_%d%s",
		variant,
		tenant,
		now.Format("2006"),
		now.Format("01"),
		uuid.New().String(),
		now.Unix(),
		path.Ext(fileName),
	)
}

// GeneratePresignedURL returns a presigned PUT URL and the object key it
// will write to
func (c *s3ClientImpl) GeneratePresignedURL(ctx context.Context, variant, tenant, fileName, contentType string) (string, string, error) {
	fileKey := generateFileKey(variant, tenant, fileName)

	presigned, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = UploadURLExpiry
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presigned.URL, fileKey, nil
}

// DeleteFile removes an object from the bucket
func (c *s3ClientImpl) DeleteFile(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the download URL for an object
func (c *s3ClientImpl) GetFileURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
