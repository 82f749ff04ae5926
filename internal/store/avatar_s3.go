package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
)

// MaxAvatarSize is the largest picture Upload accepts.
const MaxAvatarSize = 2 << 20

var (
	ErrAvatarTooLarge        = errors.New("avatar is larger than 2 MiB")
	ErrUnsupportedAvatarType = errors.New("unsupported avatar content type")
)

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3AvatarStorage is the S3 implementation of [AvatarStorage]. It talks to
// the backend's S3-compatible storage endpoint with path-style addressing.
type s3AvatarStorage struct {
	client    s3PutAPI
	bucket    string
	publicURL string
	now       func() time.Time
	logger    *logger.Logger
}

// NewS3AvatarStorage builds an [AvatarStorage] for cfg. It fails with
// [ErrAvatarStorageDisabled] when no bucket is configured.
func NewS3AvatarStorage(ctx context.Context, cfg config.ClientAvatars, log *logger.Logger) (AvatarStorage, error) {
	if !cfg.Enabled() {
		return nil, ErrAvatarStorageDisabled
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = cfg.Endpoint
	}

	return &s3AvatarStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
		logger:    log,
	}, nil
}

// Upload implements [AvatarStorage]. Pictures are stored under
// <user id>/avatar-<unix seconds><ext> so that a new upload never hits a
// cached old one.
func (s *s3AvatarStorage) Upload(ctx context.Context, userID, contentType string, body io.Reader) (string, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAvatarType, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if len(data) > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}

	key := fmt.Sprintf("%s/avatar-%d%s", userID, s.now().Unix(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		s.logger.Err(err).
			Str("func", "s3AvatarStorage.Upload").
			Str("key", key).
			Msg("failed to upload avatar")
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	return s.publicURL + "/" + s.bucket + "/" + key, nil
}
