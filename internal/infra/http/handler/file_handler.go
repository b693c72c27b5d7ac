package handler

import (
	"io"
	"net/http"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/apierror"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// FileHandler handles file upload, download and deletion against object
// storage.
type FileHandler struct {
	service       *app.FileService
	maxUploadSize int64
	logger        *logger.Logger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(service *app.FileService, maxUploadSize int64, log *logger.Logger) *FileHandler {
	return &FileHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        log.With("handler", "archivos"),
	}
}

// Upload stores a multipart file in the requested category's namespace and
// returns the generated key.
// POST /api/v1/archivos?categoria=...
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	category, ok := permission.NormalizeCategory(infrahttp.QueryParam(r, "categoria"))
	if !ok {
		apierror.BadRequest("Categoría de archivo desconocida").WriteJSON(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	file, header, err := r.FormFile("archivo")
	if err != nil {
		file, header, err = r.FormFile("file")
	}
	if err != nil {
		apierror.BadRequest("Missing file field 'archivo'").WriteJSON(w)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.service.Upload(r.Context(), actorFrom(r), category, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("file upload failed", "error", err, "category", string(category))
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"clave":     key,
		"categoria": string(category),
		"nombre":    header.Filename,
	})
}

// Download streams a stored file back to the client.
// GET /api/v1/archivos/{clave}?categoria=...
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	key, ok := h.resolveKey(w, r)
	if !ok {
		return
	}

	body, contentType, err := h.service.Download(r.Context(), actorFrom(r), key)
	if err != nil {
		handleError(w, h.logger, err, "archivo")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("file stream interrupted", "error", err, "key", key)
	}
}

// PresignURL returns a time-limited direct URL for a stored file.
// GET /api/v1/archivos/{clave}/url?categoria=...
func (h *FileHandler) PresignURL(w http.ResponseWriter, r *http.Request) {
	key, ok := h.resolveKey(w, r)
	if !ok {
		return
	}

	url, err := h.service.PresignDownload(r.Context(), actorFrom(r), key)
	if err != nil {
		handleError(w, h.logger, err, "archivo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Delete removes a stored file.
// DELETE /api/v1/archivos/{clave}?categoria=...
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.resolveKey(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFrom(r), key); err != nil {
		handleError(w, h.logger, err, "archivo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveKey rebuilds the full storage key from the path segment and the
// categoria query parameter. The namespace must match the declared category.
func (h *FileHandler) resolveKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	segment := infrahttp.PathParam(r, "clave")
	if segment == "" {
		apierror.BadRequest("Missing file key").WriteJSON(w)
		return "", false
	}

	category, ok := permission.NormalizeCategory(infrahttp.QueryParam(r, "categoria"))
	if !ok {
		apierror.BadRequest("Categoría de archivo desconocida").WriteJSON(w)
		return "", false
	}

	key := string(category) + "/" + segment
	if got, ok := app.CategoryFromKey(key); !ok || got != category {
		apierror.BadRequest("Invalid file key").WriteJSON(w)
		return "", false
	}
	return key, true
}
