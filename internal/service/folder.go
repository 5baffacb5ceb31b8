package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/imagefolders/internal/folderpath"
	"github.com/templui/imagefolders/internal/model"
	"github.com/templui/imagefolders/internal/repository"
	"github.com/templui/imagefolders/internal/validation"
)

type FolderService struct {
	repo    repository.FolderRepository
	timeout time.Duration
}

func NewFolderService(repo repository.FolderRepository, timeout time.Duration) *FolderService {
	return &FolderService{
		repo:    repo,
		timeout: timeout,
	}
}

// Folders lists the children of parentID ordered by name. A nil parent lists the root level.
func (s *FolderService) Folders(ctx context.Context, owner string, parentID *string) ([]*model.Folder, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	folders, err := s.repo.Children(ctx, owner, normalizeID(parentID))
	if err != nil {
		return nil, unavailable(err)
	}
	return folders, nil
}

func (s *FolderService) Create(ctx context.Context, owner, name string, parentID *string) (*model.Folder, error) {
	name, err := validation.ValidateFolderName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	parentID = normalizeID(parentID)
	path := folderpath.Root
	if parentID != nil {
		parent, err := s.repo.ByID(ctx, owner, *parentID)
		if errors.Is(err, repository.ErrFolderNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, unavailable(err)
		}
		path = folderpath.Resolve(parent.Path, parent.Name)
	}

	// Fast path for the common case, the unique index decides under concurrency
	_, err = s.repo.ByName(ctx, owner, parentID, name)
	if err == nil {
		return nil, ErrDuplicateName
	}
	if !errors.Is(err, repository.ErrFolderNotFound) {
		return nil, unavailable(err)
	}

	folder := &model.Folder{
		ID:        uuid.New().String(),
		UserID:    owner,
		ParentID:  parentID,
		Name:      name,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}

	err = s.repo.Create(ctx, folder)
	switch {
	case errors.Is(err, repository.ErrDuplicateFolderName):
		return nil, ErrDuplicateName
	case errors.Is(err, repository.ErrReferenceMissing):
		return nil, ErrParentNotFound
	case err != nil:
		return nil, unavailable(err)
	}

	return folder, nil
}

func (s *FolderService) ByID(ctx context.Context, owner, folderID string) (*model.Folder, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	folder, err := s.repo.ByID(ctx, owner, folderID)
	if errors.Is(err, repository.ErrFolderNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return folder, nil
}

// Delete removes an empty folder. It never cascades.
func (s *FolderService) Delete(ctx context.Context, owner, folderID string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.repo.Delete(ctx, owner, folderID)
	switch {
	case errors.Is(err, repository.ErrFolderNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrFolderInUse):
		return ErrNotEmpty
	case err != nil:
		return unavailable(err)
	}
	return nil
}

// normalizeID treats an empty id like an absent one
func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
