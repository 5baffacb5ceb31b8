package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/templui/imagefolders/internal/model"
	"github.com/templui/imagefolders/internal/storage"
	"github.com/templui/imagefolders/internal/validation"
)

// cleanupTimeout bounds compensating storage deletes, which run even when the request is gone
const cleanupTimeout = 30 * time.Second

// UploadRequest describes one incoming image upload
type UploadRequest struct {
	Name         string
	FolderID     *string
	OriginalName string
	MimeType     string // as declared by the client, the stored type is sniffed from Body
	Size         int64  // as declared by the client, the stored size is the byte count of Body
	Body         io.Reader
}

// FileService keeps payloads in storage and image records in the store in step.
// Upload writes the payload first and removes it again if the record cannot be created.
// Delete removes the record first and then the payload.
type FileService struct {
	images      *ImageService
	storage     storage.Storage
	constraints validation.FileConstraints
	timeout     time.Duration
	now         func() time.Time
}

func NewFileService(images *ImageService, store storage.Storage, maxUploadSize int64, timeout time.Duration) *FileService {
	return &FileService{
		images:      images,
		storage:     store,
		constraints: validation.ImageConstraints.WithMaxSize(maxUploadSize),
		timeout:     timeout,
		now:         time.Now,
	}
}

func (s *FileService) Upload(ctx context.Context, owner string, req UploadRequest) (*model.Image, error) {
	if _, err := validation.ValidateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}

	mimeType, body, err := validation.ValidateFile(req.Body, req.Size, s.constraints)
	switch {
	case errors.Is(err, validation.ErrFileTooLarge):
		return nil, fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
	case errors.Is(err, validation.ErrUnsupportedType), errors.Is(err, validation.ErrEmptyFile):
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedPayloadType, err)
	case err != nil:
		return nil, err
	}
	if req.MimeType != "" && req.MimeType != mimeType {
		slog.Debug("declared content type differs from detected", "declared", req.MimeType, "detected", mimeType)
	}

	key := storage.NewKey(req.OriginalName, s.now())

	saveCtx, cancel := withTimeout(ctx, s.timeout)
	err = s.storage.Save(saveCtx, key, body)
	cancel()
	if errors.Is(err, validation.ErrFileTooLarge) {
		s.removePayload(ctx, key, "failed to delete oversized payload")
		return nil, fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
	}
	if err != nil {
		return nil, unavailable(fmt.Errorf("failed to save payload: %w", err))
	}

	image, err := s.images.RegisterUpload(ctx, owner, req.Name, req.FolderID, model.Payload{
		StorageKey:   key,
		OriginalName: req.OriginalName,
		MimeType:     mimeType,
		Size:         body.Size(),
	})
	if err != nil {
		s.removePayload(ctx, key, "failed to delete payload during upload cleanup")
		return nil, err
	}

	return image, nil
}

// Delete removes the image record and then its payload. A payload that cannot be
// removed is logged as an orphan; the call still succeeds because the record is gone.
func (s *FileService) Delete(ctx context.Context, owner, imageID string) error {
	image, err := s.images.Delete(ctx, owner, imageID)
	if err != nil {
		return err
	}

	s.removePayload(ctx, image.StorageKey, "orphaned payload: failed to delete from storage")
	return nil
}

// Open streams a stored payload
func (s *FileService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.storage.Open(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return rc, nil
}

// URL returns the public retrieval path for key
func (s *FileService) URL(key string) string {
	return storage.URL(key)
}

// DownloadURL returns a temporary direct URL when the backend can presign, "" otherwise
func (s *FileService) DownloadURL(ctx context.Context, key string) (string, error) {
	presigner, ok := s.storage.(storage.Presigner)
	if !ok {
		return "", nil
	}

	url, err := presigner.PresignedURL(ctx, key)
	if errors.Is(err, storage.ErrInvalidKey) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", unavailable(err)
	}
	return url, nil
}

func (s *FileService) removePayload(ctx context.Context, key, msg string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.storage.Delete(ctx, key); err != nil {
		slog.Error(msg, "error", err, "storage_key", key)
	}
}
