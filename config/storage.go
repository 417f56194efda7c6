package config

import (
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	BucketName      string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the AWS endpoint for S3 compatible providers.
	Endpoint string
}

func GetS3Config() S3Config {
	return S3Config{
		BucketName:      os.Getenv("AWS_BUCKET_NAME"),
		Region:          getEnv("AWS_REGION", "us-east-1"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Endpoint:        os.Getenv("AWS_ENDPOINT"),
	}
}

// Enabled reports whether uploads can be signed.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func (c S3Config) NewClient() *s3.Client {
	opts := s3.Options{
		Region: c.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			c.AccessKeyID,
			c.SecretAccessKey,
			"",
		),
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}
