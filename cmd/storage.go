package cmd

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/faunapedia/api-go/config"
)

func s3PresignClient(c config.S3Config) *s3.PresignClient {
	return s3.NewPresignClient(c.NewClient())
}
