// Package objectstore issues presigned upload URLs for an S3-compatible
// bucket (AWS S3 or MinIO). Clients upload images directly; the API only
// stores the resulting public URL.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/config"
	"github.com/yoman-app/yoman-api/internal/metrics"
)

// ErrUnsupportedContentType is returned for uploads that are not images.
var ErrUnsupportedContentType = errors.New("unsupported content type")

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
}

// Presigner is the part of *s3.PresignClient used here.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Upload is a presigned PUT plus the URL the object will be readable at.
type Upload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Bucket presigns uploads into one bucket.
type Bucket struct {
	presigner Presigner
	bucket    string
	publicURL string
	expires   time.Duration
	now       func() time.Time
}

// NewBucket builds an S3 client from cfg. A custom endpoint switches to
// path-style addressing so MinIO works.
func NewBucket(ctx context.Context, cfg config.StorageConfig) (*Bucket, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicBaseURL
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return NewBucketWithPresigner(s3.NewPresignClient(client), cfg.Bucket, publicURL,
		time.Duration(cfg.PresignMinutes)*time.Minute), nil
}

// NewBucketWithPresigner wires an existing presigner.
func NewBucketWithPresigner(p Presigner, bucket, publicURL string, expires time.Duration) *Bucket {
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	return &Bucket{
		presigner: p,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		expires:   expires,
		now:       time.Now,
	}
}

// ObjectKey returns a fresh key under prefix/owner/yyyy/mm/ for contentType.
func ObjectKey(prefix string, owner uuid.UUID, contentType string, at time.Time) (string, error) {
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return path.Join(prefix, owner.String(), at.Format("2006/01"), uuid.NewString()+ext), nil
}

// PresignPut presigns a PUT of contentType under prefix for owner.
func (b *Bucket) PresignPut(ctx context.Context, prefix string, owner uuid.UUID, contentType string) (*Upload, error) {
	now := b.now().UTC()
	key, err := ObjectKey(prefix, owner, contentType, now)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	req, err := b.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(b.expires))
	metrics.ObserveNetworkRequest("s3", "presign_put", start, err)
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}

	return &Upload{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: b.publicURL + "/" + key,
		Method:    req.Method,
		ExpiresAt: now.Add(b.expires),
	}, nil
}
