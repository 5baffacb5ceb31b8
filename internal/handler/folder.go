package handler

import (
	"encoding/json"
	"net/http"

	"github.com/templui/imagefolders/internal/ctxkeys"
	"github.com/templui/imagefolders/internal/service"
)

const maxJSONBody = 1 << 20

type FolderHandler struct {
	folderService *service.FolderService
}

func NewFolderHandler(folderService *service.FolderService) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
	}
}

type createFolderRequest struct {
	Name         string  `json:"name"`
	ParentFolder *string `json:"parentFolder"`
}

// List returns the folders directly under ?parentId= (root when absent or empty)
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())

	var parentID *string
	if id := r.URL.Query().Get("parentId"); id != "" {
		parentID = &id
	}

	folders, err := h.folderService.Folders(r.Context(), owner, parentID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, folders)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())

	var req createFolderRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req)
	if err != nil {
		renderBadRequest(w, "Invalid request body")
		return
	}

	folder, err := h.folderService.Create(r.Context(), owner, req.Name, req.ParentFolder)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, folder)
}

func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())

	folder, err := h.folderService.ByID(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, folder)
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Owner(r.Context())

	err := h.folderService.Delete(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderMessage(w, "Folder deleted successfully")
}
