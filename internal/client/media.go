package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/validation"
)

// Media is an uploaded object and its public URL.
type Media struct {
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// UploadMedia sends a local file as an image, video or audio attachment.
// Oversize files are refused before anything is sent.
func (c *Client) UploadMedia(ctx context.Context, kind, path string) (*Media, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	err = validation.ValidateMediaSize(kind, info.Size())
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var media Media
	resp, err := c.r(ctx).
		SetFileReader("file", filepath.Base(path), f).
		SetFormData(map[string]string{"kind": kind}).
		SetResult(&media).
		Post("/api/media")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &media, nil
}

// UploadAvatar replaces the profile picture.
func (c *Client) UploadAvatar(ctx context.Context, path string) (*model.Profile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	err = validation.ValidateMediaSize(model.FileTypeAvatar, info.Size())
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var profile model.Profile
	resp, err := c.r(ctx).
		SetFileReader("avatar", filepath.Base(path), f).
		SetResult(&profile).
		Post("/api/profile/avatar")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &profile, nil
}
