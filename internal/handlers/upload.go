package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/practicstudio/devtrack/internal/httpx"
	"github.com/practicstudio/devtrack/internal/models"
	"github.com/practicstudio/devtrack/internal/storage"
)

// maxImageSize caps a single uploaded image at 5 MiB.
const maxImageSize = 5 << 20

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type UploadHandler struct {
	Store storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{Store: store}
}

// Upload accepts multipart "images" (or "images[]") files, stores each
// under a fresh uuid name and returns the stored references. The whole
// batch is validated before anything is written, so a bad file rejects
// the request without leaving partial uploads behind.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart", nil)
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		files = r.MultipartForm.File["images[]"]
	}
	if len(files) == 0 {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed",
			map[string]string{"images": "required"})
		return
	}

	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := allowedImageExts[ext]; !ok {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed",
				map[string]string{"images": "unsupported_type"})
			return
		}
		if fh.Size > maxImageSize {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed",
				map[string]string{"images": "too_large"})
			return
		}
	}

	uploaded := make([]models.TaskImage, 0, len(files))
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		filename := uuid.NewString() + ext
		key := "task-images/" + filename

		f, err := fh.Open()
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
			return
		}
		url, err := h.Store.Save(r.Context(), key, allowedImageExts[ext], f)
		f.Close()
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
			return
		}

		uploaded = append(uploaded, models.TaskImage{
			Filename:     filename,
			Path:         key,
			URL:          url,
			OriginalName: fh.Filename,
			Size:         fh.Size,
		})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"images": uploaded})
}
