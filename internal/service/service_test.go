package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/templui/imagefolders/internal/db/dbtest"
	"github.com/templui/imagefolders/internal/model"
	"github.com/templui/imagefolders/internal/repository"
	"github.com/templui/imagefolders/internal/storage"
)

const testTimeout = 5 * time.Second

// pngBytes is a PNG signature padded to a plausible payload
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}, make([]byte, 64)...)

type fixture struct {
	folderRepo repository.FolderRepository
	imageRepo  repository.ImageRepository
	store      *storage.LocalStorage
	dir        string
	folders    *FolderService
	images     *ImageService
	files      *FileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := dbtest.New(t)
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	f := &fixture{
		folderRepo: repository.NewFolderRepository(database),
		imageRepo:  repository.NewImageRepository(database),
		store:      store,
		dir:        dir,
	}
	f.folders = NewFolderService(f.folderRepo, testTimeout)
	f.images = NewImageService(f.imageRepo, f.folderRepo, testTimeout)
	f.files = NewFileService(f.images, store, 10<<20, testTimeout)
	return f
}

func pngUpload(name string, folderID *string) UploadRequest {
	return UploadRequest{
		Name:         name,
		FolderID:     folderID,
		OriginalName: name,
		MimeType:     "image/png",
		Size:         int64(len(pngBytes)),
		Body:         bytes.NewReader(pngBytes),
	}
}

func ptr(s string) *string { return &s }

// fakeStorage wraps a real backend and lets tests fail single operations
type fakeStorage struct {
	storage.Storage
	saveErr   error
	deleteErr error
	deleted   []string
}

func (s *fakeStorage) Save(ctx context.Context, key string, r io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Storage.Save(ctx, key, r)
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Storage.Delete(ctx, key)
}

// fakeImageRepo wraps a real repository and lets tests fail single operations
type fakeImageRepo struct {
	repository.ImageRepository
	createErr error
	deleteErr error
}

func (r *fakeImageRepo) Create(ctx context.Context, image *model.Image) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.ImageRepository.Create(ctx, image)
}

func (r *fakeImageRepo) Delete(ctx context.Context, userID, imageID string) (*model.Image, error) {
	if r.deleteErr != nil {
		return nil, r.deleteErr
	}
	return r.ImageRepository.Delete(ctx, userID, imageID)
}

// fakeFolderRepo wraps a real repository and lets tests fail single operations
type fakeFolderRepo struct {
	repository.FolderRepository
	createErr error
	deleteErr error
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *model.Folder) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.FolderRepository.Create(ctx, folder)
}

func (r *fakeFolderRepo) Delete(ctx context.Context, userID, folderID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.FolderRepository.Delete(ctx, userID, folderID)
}
