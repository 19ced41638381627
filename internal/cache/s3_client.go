package cache

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// NewS3Client creates a new S3 client based on environment
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		// Local development configuration
		log.Debug().Str("endpoint", endpoint).Msg("Using local S3 endpoint")
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion("local"),
		)
		if err != nil {
			return nil, err
		}

		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})

		return client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg), nil
}
