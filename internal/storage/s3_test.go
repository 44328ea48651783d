package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{name: "aws", cfg: S3Config{Bucket: "media", Region: "eu-central-1"}, want: "https://media.s3.eu-central-1.amazonaws.com"},
		{name: "custom endpoint", cfg: S3Config{Bucket: "media", Endpoint: "http://localhost:9000/"}, want: "http://localhost:9000/media"},
		{name: "cdn wins", cfg: S3Config{Bucket: "media", Endpoint: "http://minio:9000", PublicURL: "https://cdn.example.com/"}, want: "https://cdn.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicBaseURL(tt.cfg))
		})
	}
}

func TestURLIsDeterministic(t *testing.T) {
	s := &S3Storage{publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/public/images/a.png", s.URL("public/images/a.png"))
	assert.Equal(t, s.URL("/public/images/a.png"), s.URL("public/images/a.png"))
}
