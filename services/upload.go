package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// UploadURLExpiry bounds the lifetime of a signed upload URL.
const UploadURLExpiry = 60 * time.Second

const maxFileNameLength = 100

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/gif":  true,
}

var unsafeFileNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Presigner is the part of s3.PresignClient used to sign uploads.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type UploadGrant struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type UploadService struct {
	presigner Presigner
	bucket    string
	region    string
	endpoint  string
}

// NewUploadService signs uploads into bucket. endpoint is empty for AWS and
// set to the base URL of S3 compatible providers.
func NewUploadService(presigner Presigner, bucket, region, endpoint string) *UploadService {
	return &UploadService{
		presigner: presigner,
		bucket:    bucket,
		region:    region,
		endpoint:  strings.TrimRight(endpoint, "/"),
	}
}

// PresignUpload grants the caller a single PUT of one image under its own
// key prefix.
func (s *UploadService) PresignUpload(ctx context.Context, externalID, fileName, contentType string) (*UploadGrant, error) {
	if s.presigner == nil || s.bucket == "" {
		return nil, ErrStorageUnavailable
	}
	if externalID == "" {
		return nil, ErrUserNotFound
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("%w: content type %q is not an image", ErrInvalidUpload, contentType)
	}

	key := fmt.Sprintf("%s/%s-%s", externalID, uuid.NewString(), SanitizeFileName(fileName))
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(UploadURLExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &UploadGrant{
		URL:       req.URL,
		Key:       key,
		ExpiresIn: int(UploadURLExpiry / time.Second),
	}, nil
}

// ImageURL returns the public URL of the object stored under key. It fails
// with ErrStorageUnavailable when no bucket is configured.
func (s *UploadService) ImageURL(key string) (string, error) {
	if s.bucket == "" || (s.endpoint == "" && s.region == "") {
		return "", ErrStorageUnavailable
	}
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// SanitizeFileName keeps the base name of an uploaded file and replaces
// characters that are awkward in object keys.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeFileNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if len(name) > maxFileNameLength {
		name = name[len(name)-maxFileNameLength:]
	}
	if name == "" {
		return "upload"
	}
	return name
}
