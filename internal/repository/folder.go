package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/imagefolders/internal/model"
)

var (
	ErrFolderNotFound      = errors.New("folder not found")
	ErrDuplicateFolderName = errors.New("folder name already exists in this location")
	ErrFolderInUse         = errors.New("folder contains subfolders or images")
	ErrReferenceMissing    = errors.New("referenced folder does not exist")
)

type FolderRepository interface {
	Create(ctx context.Context, folder *model.Folder) error
	ByID(ctx context.Context, userID, folderID string) (*model.Folder, error)
	ByName(ctx context.Context, userID string, parentID *string, name string) (*model.Folder, error)
	Children(ctx context.Context, userID string, parentID *string) ([]*model.Folder, error)
	Delete(ctx context.Context, userID, folderID string) error
}

type folderRepository struct {
	db *sqlx.DB
}

func NewFolderRepository(db *sqlx.DB) FolderRepository {
	return &folderRepository{db: db}
}

// Create inserts a folder. The sibling name index and the parent foreign key are
// the authority here: a concurrent duplicate or a parent deleted in the meantime
// fails the insert.
func (r *folderRepository) Create(ctx context.Context, folder *model.Folder) error {
	query := `INSERT INTO folders (id, user_id, parent_id, name, path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		folder.ID,
		folder.UserID,
		folder.ParentID,
		folder.Name,
		folder.Path,
		folder.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFolderName
		}
		if isForeignKeyViolation(err) {
			return ErrReferenceMissing
		}
		return err
	}

	return nil
}

func (r *folderRepository) ByID(ctx context.Context, userID, folderID string) (*model.Folder, error) {
	folder := &model.Folder{}
	query := `SELECT * FROM folders WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, folder, query, folderID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}

	return folder, nil
}

func (r *folderRepository) ByName(ctx context.Context, userID string, parentID *string, name string) (*model.Folder, error) {
	folder := &model.Folder{}
	query := `SELECT * FROM folders WHERE user_id = $1 AND COALESCE(parent_id, '') = $2 AND name = $3`

	err := r.db.GetContext(ctx, folder, query, userID, deref(parentID), name)
	if err == sql.ErrNoRows {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}

	return folder, nil
}

func (r *folderRepository) Children(ctx context.Context, userID string, parentID *string) ([]*model.Folder, error) {
	folders := []*model.Folder{}

	var err error
	if parentID == nil {
		query := `SELECT * FROM folders WHERE user_id = $1 AND parent_id IS NULL ORDER BY name ASC`
		err = r.db.SelectContext(ctx, &folders, query, userID)
	} else {
		query := `SELECT * FROM folders WHERE user_id = $1 AND parent_id = $2 ORDER BY name ASC`
		err = r.db.SelectContext(ctx, &folders, query, userID, *parentID)
	}
	if err != nil {
		return nil, err
	}

	return folders, nil
}

// Delete removes an empty folder. The emptiness check is part of the DELETE
// statement itself, so it sees the store's state at the moment of the delete;
// the RESTRICT foreign keys reject anything that slips in concurrently.
func (r *folderRepository) Delete(ctx context.Context, userID, folderID string) error {
	query := `DELETE FROM folders
	          WHERE id = $1 AND user_id = $2
	            AND NOT EXISTS (SELECT 1 FROM folders child WHERE child.parent_id = $3)
	            AND NOT EXISTS (SELECT 1 FROM images img WHERE img.folder_id = $4)`

	result, err := r.db.ExecContext(ctx, query, folderID, userID, folderID, folderID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrFolderInUse
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	// Nothing deleted: either the folder is missing or it is not empty
	var count int
	err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM folders WHERE id = $1 AND user_id = $2`, folderID, userID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFolderNotFound
	}

	return ErrFolderInUse
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
