package services

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresigner() *s3.PresignClient {
	client := s3.New(s3.Options{
		Region:      "eu-west-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	return s3.NewPresignClient(client)
}

func TestPresignUpload(t *testing.T) {
	svc := NewUploadService(newTestPresigner(), "faunapedia-photos", "eu-west-1", "")

	grant, err := svc.PresignUpload(context.Background(), "user_123", "My Lion.JPG", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(grant.Key, "user_123/"), grant.Key)
	assert.True(t, strings.HasSuffix(grant.Key, "-My-Lion.JPG"), grant.Key)
	assert.Equal(t, 60, grant.ExpiresIn)

	u, err := url.Parse(grant.URL)
	require.NoError(t, err)
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Path, "user_123/")

	other, err := svc.PresignUpload(context.Background(), "user_123", "My Lion.JPG", "image/jpeg")
	require.NoError(t, err)
	assert.NotEqual(t, grant.Key, other.Key)
}

func TestPresignUploadRejects(t *testing.T) {
	svc := NewUploadService(newTestPresigner(), "faunapedia-photos", "eu-west-1", "")

	_, err := svc.PresignUpload(context.Background(), "user_123", "notes.txt", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = svc.PresignUpload(context.Background(), "", "lion.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPresignUploadWithoutStorage(t *testing.T) {
	for name, svc := range map[string]*UploadService{
		"no presigner": NewUploadService(nil, "faunapedia-photos", "eu-west-1", ""),
		"no bucket":    NewUploadService(newTestPresigner(), "", "eu-west-1", ""),
	} {
		_, err := svc.PresignUpload(context.Background(), "user_123", "lion.jpg", "image/jpeg")
		assert.ErrorIs(t, err, ErrStorageUnavailable, name)
		assert.NotErrorIs(t, err, ErrInvalidUpload, name)
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		name    string
		svc     *UploadService
		want    string
		wantErr error
	}{
		{"aws", NewUploadService(nil, "faunapedia-photos", "eu-west-1", ""), "https://faunapedia-photos.s3.eu-west-1.amazonaws.com/user_1/a.jpg", nil},
		{"custom endpoint", NewUploadService(nil, "photos", "", "http://localhost:9000/"), "http://localhost:9000/photos/user_1/a.jpg", nil},
		{"no bucket", NewUploadService(nil, "", "us-east-1", ""), "", ErrStorageUnavailable},
		{"no region", NewUploadService(nil, "photos", "", ""), "", ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.svc.ImageURL("user_1/a.jpg")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lion.jpg", "lion.jpg"},
		{"My Lion.JPG", "My-Lion.JPG"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\lion pic.png`, "lion-pic.png"},
		{"héllo.png", "h-llo.png"},
		{"", "upload"},
		{"...", "upload"},
		{strings.Repeat("a", 120) + ".png", strings.Repeat("a", 96) + ".png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFileName(tt.in), tt.in)
	}
}

var _ Presigner = (*s3.PresignClient)(nil)
