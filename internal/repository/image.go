package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/imagefolders/internal/model"
)

var (
	ErrImageNotFound = errors.New("image not found")
)

// FolderScope selects which images a listing covers
type FolderScope int

const (
	FolderScopeAny  FolderScope = iota // every image of the user
	FolderScopeRoot                    // images without a folder
	FolderScopeID                      // images of ImageFilter.FolderID
)

type ImageFilter struct {
	Scope    FolderScope
	FolderID string
	// Search is matched as a substring of the case-folded name. Callers pass it already folded.
	Search string
}

type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	ByID(ctx context.Context, userID, imageID string) (*model.Image, error)
	Images(ctx context.Context, userID string, filter ImageFilter) ([]*model.Image, error)
	Delete(ctx context.Context, userID, imageID string) (*model.Image, error)
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

const selectImages = `SELECT i.*, f.name AS folder_name
	FROM images i
	LEFT JOIN folders f ON f.id = i.folder_id`

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	query := `INSERT INTO images (id, user_id, folder_id, name, name_folded, storage_key, original_name, mime_type, size, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		image.ID,
		image.UserID,
		image.FolderID,
		image.Name,
		image.NameFolded,
		image.StorageKey,
		image.OriginalName,
		image.MimeType,
		image.Size,
		image.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenceMissing
		}
		return err
	}

	return nil
}

func (r *imageRepository) ByID(ctx context.Context, userID, imageID string) (*model.Image, error) {
	image := &model.Image{}
	query := selectImages + ` WHERE i.id = $1 AND i.user_id = $2`

	err := r.db.GetContext(ctx, image, query, imageID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	return image, nil
}

func (r *imageRepository) Images(ctx context.Context, userID string, filter ImageFilter) ([]*model.Image, error) {
	images := []*model.Image{}

	var b strings.Builder
	b.WriteString(selectImages)
	b.WriteString(` WHERE i.user_id = $1`)
	args := []any{userID}

	switch filter.Scope {
	case FolderScopeRoot:
		b.WriteString(` AND i.folder_id IS NULL`)
	case FolderScopeID:
		args = append(args, filter.FolderID)
		b.WriteString(` AND i.folder_id = $` + strconv.Itoa(len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		b.WriteString(` AND i.name_folded LIKE $` + strconv.Itoa(len(args)) + ` ESCAPE '\'`)
	}

	b.WriteString(` ORDER BY i.created_at DESC, i.id DESC`)

	err := r.db.SelectContext(ctx, &images, b.String(), args...)
	if err != nil {
		return nil, err
	}

	return images, nil
}

// Delete removes the record and returns it so the caller can unlink the payload
func (r *imageRepository) Delete(ctx context.Context, userID, imageID string) (*model.Image, error) {
	image := &model.Image{}
	query := `DELETE FROM images WHERE id = $1 AND user_id = $2 RETURNING *`

	err := r.db.GetContext(ctx, image, query, imageID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	return image, nil
}

// escapeLike escapes LIKE wildcards so the term matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
