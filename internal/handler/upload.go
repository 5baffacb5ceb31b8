package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/templui/imagefolders/internal/service"
)

// UploadHandler serves stored payloads under their public path
type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

// Serve streams the payload for {key}, or redirects to a presigned URL when the backend offers one
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	url, err := h.fileService.DownloadURL(r.Context(), key)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	rc, err := h.fileService.Open(r.Context(), key)
	if err != nil {
		renderError(w, r, err)
		return
	}
	defer func() {
		closeErr := rc.Close()
		if closeErr != nil {
			slog.Error("failed to close payload", "error", closeErr, "storage_key", key)
		}
	}()

	// Keys are never reused, so payloads can be cached forever
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, key, time.Time{}, rs)
		return
	}

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Warn("failed to stream payload", "error", err, "storage_key", key)
	}
}
