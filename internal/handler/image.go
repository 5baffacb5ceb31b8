package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/imagefolders/internal/ctxkeys"
	"github.com/templui/imagefolders/internal/model"
	"github.com/templui/imagefolders/internal/repository"
	"github.com/templui/imagefolders/internal/service"
)

// multipartOverhead is the allowance for form fields and boundaries on top of the payload limit
const multipartOverhead = 1 << 20

type ImageHandler struct {
	imageService  *service.ImageService
	fileService   *service.FileService
	maxUploadSize int64
}

func NewImageHandler(imageService *service.ImageService, fileService *service.FileService, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{
		imageService:  imageService,
		fileService:   fileService,
		maxUploadSize: maxUploadSize,
	}
}

type uploadResponse struct {
	Message string       `json:"message"`
	Image   *model.Image `json:"image"`
}

// Upload accepts multipart fields image (file), name and folderId
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	err := r.ParseMultipartForm(h.maxUploadSize)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			renderError(w, r, service.ErrPayloadTooLarge)
			return
		}
		renderBadRequest(w, "Failed to parse form")
		return
	}
	defer func() {
		removeErr := r.MultipartForm.RemoveAll()
		if removeErr != nil {
			slog.Warn("failed to remove multipart temp files", "error", removeErr)
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		renderBadRequest(w, "No image uploaded")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	var folderID *string
	if id := r.FormValue("folderId"); id != "" {
		folderID = &id
	}

	image, err := h.fileService.Upload(r.Context(), owner, service.UploadRequest{
		Name:         r.FormValue("name"),
		FolderID:     folderID,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("image uploaded", "image_id", image.ID, "owner", owner, "size", image.Size)
	renderJSON(w, http.StatusCreated, uploadResponse{
		Message: "Image uploaded successfully",
		Image:   image,
	})
}

// List returns images newest first.
// ?folderId absent lists everything, present but empty lists root images, otherwise one folder.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())
	q := r.URL.Query()

	filter := repository.ImageFilter{Search: q.Get("search")}
	if q.Has("folderId") {
		filter.Scope = repository.FolderScopeRoot
		if id := q.Get("folderId"); id != "" {
			filter.Scope = repository.FolderScopeID
			filter.FolderID = id
		}
	}

	images, err := h.imageService.Images(r.Context(), owner, filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, images)
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())

	image, err := h.imageService.ByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, image)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())

	err := h.fileService.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderMessage(w, "Image deleted successfully")
}
