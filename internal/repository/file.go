package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

// FileRepository records every uploaded media object so it can be removed
// from storage when the row that points at it goes away.
type FileRepository interface {
	Create(file *model.File) error
	Owned(userID, url string) (*model.File, error)
	ByUser(userID string) ([]model.File, error)
	Delete(id string) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *model.File) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO files (id, user_id, owner_type, owner_id, type, filename, original_name, mime_type, size, storage_path, url, created_at)
	          VALUES (:id, :user_id, :owner_type, :owner_id, :type, :filename, :original_name, :mime_type, :size, :storage_path, :url, :created_at)`

	_, err := r.db.NamedExec(query, file)
	return err
}

// Owned finds the upload behind a public URL, only if userID uploaded it.
func (r *fileRepository) Owned(userID, url string) (*model.File, error) {
	return get[model.File](r.db, ErrFileNotFound, `SELECT * FROM files WHERE url = $1 AND user_id = $2`, url, userID)
}

func (r *fileRepository) ByUser(userID string) ([]model.File, error) {
	return list[model.File](r.db, `SELECT * FROM files WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *fileRepository) Delete(id string) error {
	return oneRow(ErrFileNotFound)(r.db.Exec(`DELETE FROM files WHERE id = $1`, id))
}
