package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
)

// ObjectGetter is the part of the S3 client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads "<prefix><city>_<day>.csv" objects from a bucket.
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
	logger *logging.Logger
}

// NewS3Source builds a source on the default AWS credential chain.
func NewS3Source(ctx context.Context, region, bucket, prefix string, logger *logging.Logger) (*S3Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func NewS3SourceWithClient(client ObjectGetter, bucket, prefix string, logger *logging.Logger) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Load fetches and decodes one city object. A missing key yields no rows.
func (s *S3Source) Load(ctx context.Context, city string, day domain.DayType) ([]domain.Listing, error) {
	key := s.prefix + FileName(city, day)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			s.logger.Warn("[storage] s3://%s/%s not found, treating as empty", s.bucket, key)
			return nil, nil
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	rows, err := DecodeListings(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	s.logger.Info("[storage] loaded %d rows from s3://%s/%s", len(rows), s.bucket, key)
	return rows, nil
}
