package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/relayvision/visionlog/internal/metrics"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/repository"
	"github.com/relayvision/visionlog/internal/storage"
	"github.com/relayvision/visionlog/internal/validation"
)

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

// Upload validates, stores and records a media file, returning it with its public URL.
// Objects land under public/<kind>s/<uuid><ext>.
func (s *FileService) Upload(ctx context.Context, userID, kind string, header *multipart.FileHeader) (*model.File, error) {
	constraints, err := validation.MediaConstraints(kind)
	if err != nil {
		return nil, err
	}

	mimeType, err := validation.ValidateFile(header, constraints)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	storagePath := path.Join("public", kind+"s", filename)

	err = s.storage.Save(ctx, storagePath, file, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	fileModel := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		OwnerType:    "user",
		OwnerID:      userID,
		Type:         kind,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  storagePath,
		URL:          s.storage.URL(storagePath),
		CreatedAt:    time.Now().UTC(),
	}

	err = s.fileRepo.Create(fileModel)
	if err != nil {
		// If DB insert fails, try to cleanup the uploaded file
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	metrics.Get().UploadBytes.WithLabelValues(kind).Observe(float64(header.Size))
	slog.Info("media uploaded", "user_id", userID, "kind", kind, "size", header.Size)
	return fileModel, nil
}

// DeleteByURL removes a media file the user owns. Unknown URLs are ignored.
func (s *FileService) DeleteByURL(ctx context.Context, userID, url string) error {
	if url == "" {
		return nil
	}

	file, err := s.fileRepo.Owned(userID, url)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	return s.delete(ctx, file)
}

func (s *FileService) delete(ctx context.Context, file *model.File) error {
	// Delete from storage (best effort)
	delErr := s.storage.Delete(ctx, file.StoragePath)
	if delErr != nil {
		slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
	}

	err := s.fileRepo.Delete(file.ID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}

func (s *FileService) DeleteAllUserFilesFromStorage(ctx context.Context, userID string) error {
	files, err := s.fileRepo.ByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to get user files: %w", err)
	}

	for _, file := range files {
		err = s.storage.Delete(ctx, file.StoragePath)
		if err != nil {
			// Log but continue - physical file may already be gone
			slog.Warn("failed to delete file from storage", "storage_path", file.StoragePath, "error", err)
		}
	}

	return nil
}
