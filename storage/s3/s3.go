package s3

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/storage"
)

// Gateway implements storage.Gateway on Amazon S3 (or S3-compatible services).
type Gateway struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
}

// LoadAWSConfig resolves SDK configuration for region, reading credentials
// from the named shared-config profile when profile is non-empty.
func LoadAWSConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// New creates a gateway bound to cfg.Bucket.
func New(ctx context.Context, cfg *Config) (*Gateway, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError(err.Error())
	}
	awsCfg, err := LoadAWSConfig(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return nil, errors.ConfigError("cannot load aws config for profile " + cfg.Profile).WithCause(err)
	}
	return NewFromAWSConfig(awsCfg, cfg), nil
}

// NewFromAWSConfig creates a gateway from an already resolved SDK config.
func NewFromAWSConfig(awsCfg aws.Config, cfg *Config) *Gateway {
	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, s3Opts...)
	return &Gateway{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}
}

// List pages through ListObjectsV2 and returns every non-marker object
// under prefix.
func (g *Gateway) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	p := awss3.NewListObjectsV2Paginator(g.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(prefix),
	})

	var objs []storage.Object
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.BackendError("list", err).
				WithDetail("bucket", g.bucket).
				WithDetail("prefix", prefix)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if storage.IsDirectoryMarker(key) {
				continue
			}
			objs = append(objs, storage.Object{Key: key, Size: aws.ToInt64(obj.Size)})
		}
	}
	return objs, nil
}

// SignedURL presigns a GetObject request valid for ttl.
func (g *Gateway) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := g.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", errors.BackendError("sign", err).WithDetail("key", key)
	}
	return req.URL, nil
}

// Upload streams r to key. The body is passed through to the SDK unbuffered.
func (g *Gateway) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	_, err := g.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.BackendError("put", err).WithDetail("key", key)
	}
	return nil
}

// compile-time check
var _ storage.Gateway = (*Gateway)(nil)
