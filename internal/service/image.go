package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/templui/imagefolders/internal/model"
	"github.com/templui/imagefolders/internal/repository"
	"github.com/templui/imagefolders/internal/storage"
	"github.com/templui/imagefolders/internal/validation"
)

type ImageService struct {
	repo       repository.ImageRepository
	folderRepo repository.FolderRepository
	timeout    time.Duration
}

func NewImageService(repo repository.ImageRepository, folderRepo repository.FolderRepository, timeout time.Duration) *ImageService {
	return &ImageService{
		repo:       repo,
		folderRepo: folderRepo,
		timeout:    timeout,
	}
}

// Images lists the owner's images newest first. Search matches a case-insensitive substring of the name.
func (s *ImageService) Images(ctx context.Context, owner string, filter repository.ImageFilter) ([]*model.Image, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter.Search = fold(strings.TrimSpace(filter.Search))

	images, err := s.repo.Images(ctx, owner, filter)
	if err != nil {
		return nil, unavailable(err)
	}
	for _, image := range images {
		image.URL = storage.URL(image.StorageKey)
	}
	return images, nil
}

// RegisterUpload records metadata for a payload that is already in storage
func (s *ImageService) RegisterUpload(ctx context.Context, owner, name string, folderID *string, payload model.Payload) (*model.Image, error) {
	name, err := validation.ValidateName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	folderID = normalizeID(folderID)
	var folderName *string
	if folderID != nil {
		folder, err := s.folderRepo.ByID(ctx, owner, *folderID)
		if errors.Is(err, repository.ErrFolderNotFound) {
			return nil, ErrFolderNotFound
		}
		if err != nil {
			return nil, unavailable(err)
		}
		folderName = &folder.Name
	}

	image := &model.Image{
		ID:           uuid.New().String(),
		UserID:       owner,
		FolderID:     folderID,
		Name:         name,
		NameFolded:   fold(name),
		StorageKey:   payload.StorageKey,
		OriginalName: payload.OriginalName,
		MimeType:     payload.MimeType,
		Size:         payload.Size,
		CreatedAt:    time.Now().UTC(),
		FolderName:   folderName,
	}

	err = s.repo.Create(ctx, image)
	if errors.Is(err, repository.ErrReferenceMissing) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}

	image.URL = storage.URL(image.StorageKey)
	return image, nil
}

func (s *ImageService) ByID(ctx context.Context, owner, imageID string) (*model.Image, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	image, err := s.repo.ByID(ctx, owner, imageID)
	if errors.Is(err, repository.ErrImageNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}

	image.URL = storage.URL(image.StorageKey)
	return image, nil
}

// Delete removes the metadata record only and returns it
func (s *ImageService) Delete(ctx context.Context, owner, imageID string) (*model.Image, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	image, err := s.repo.Delete(ctx, owner, imageID)
	if errors.Is(err, repository.ErrImageNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return image, nil
}

// fold returns the Unicode case folded form used for name search.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
