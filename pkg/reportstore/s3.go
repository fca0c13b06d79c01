package reportstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of *s3.Client used by S3Storage.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage keeps files in an S3 or S3-compatible bucket. It is safe for
// concurrent use.
type S3Storage struct {
	client  S3Client
	bucket  string
	prefix  string
	baseURL string
}

// S3Config contains configuration for S3 storage.
type S3Config struct {
	Bucket         string
	Region         string
	Prefix         string // Optional key prefix for every stored file
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // Optional: for S3-compatible services
	BaseURL        string // Public URL base for serving files
	ForcePathStyle bool   // For S3-compatible services like MinIO
}

// S3Option configures NewS3Storage.
type S3Option func(*s3Options)

type s3Options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
}

// WithS3Client uses a pre-configured client.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) { o.s3Client = client }
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) { o.httpClient = client }
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) { o.s3ConfigOptions = append(o.s3ConfigOptions, option) }
}

// NewS3Storage creates an S3 backed storage.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}
		awsOptions = append(awsOptions, options.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	prefix, err := cleanKey(cfg.Prefix)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &S3Storage{client: client, bucket: cfg.Bucket, prefix: prefix, baseURL: baseURL}, nil
}

func (s *S3Storage) key(p string) (string, error) {
	key, err := cleanKey(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, p)
	}
	return joinKey(s.prefix, key), nil
}

// rel strips the configured prefix from a bucket key.
func (s *S3Storage) rel(key string) string {
	return strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
}

func (s *S3Storage) Put(ctx context.Context, p string, body io.Reader, contentType string) (*Object, error) {
	key, err := s.key(p)
	if err != nil {
		return nil, err
	}
	// request signing needs a seekable body of known length
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	return &Object{Path: s.rel(key), Size: int64(len(data)), ContentType: contentType}, nil
}

func (s *S3Storage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := s.key(p)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return out.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, p string) error {
	key, err := s.key(p)
	if err != nil {
		return err
	}
	if !s.exists(ctx, key) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return errors.Join(ErrFailedToDeleteFile, err)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, p string) bool {
	key, err := s.key(p)
	if err != nil {
		return false
	}
	return s.exists(ctx, key)
}

func (s *S3Storage) exists(ctx context.Context, key string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3Storage) List(ctx context.Context, dir string) ([]Entry, error) {
	prefix, err := s.key(dir)
	if err != nil {
		return nil, err
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}

	var entries []Entry
	for _, cp := range resp.CommonPrefixes {
		full := aws.ToString(cp.Prefix)
		entries = append(entries, Entry{
			Name:  strings.TrimSuffix(strings.TrimPrefix(full, prefix), "/"),
			Path:  strings.TrimSuffix(s.rel(full), "/"),
			IsDir: true,
		})
	}
	for _, obj := range resp.Contents {
		key := aws.ToString(obj.Key)
		if key == prefix {
			continue
		}
		entries = append(entries, Entry{
			Name: strings.TrimPrefix(key, prefix),
			Path: s.rel(key),
			Size: aws.ToInt64(obj.Size),
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}
	return entries, nil
}

func (s *S3Storage) URL(p string) string {
	key, err := s.key(p)
	if err != nil {
		return ""
	}
	return s.baseURL + key
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey")
}
