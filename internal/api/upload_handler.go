package api

import (
	"net/http"

	"github.com/yoman-app/yoman-api/internal/api/shared"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/service"
)

// UploadHandler issues presigned image upload URLs.
type UploadHandler struct {
	uploads service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploads service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Presign handles POST /api/uploads. Set cover images are admin-only.
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req UploadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	kind := service.UploadKind(req.Kind)
	if kind == service.UploadSetImage && shared.Role(r.Context()) != domain.RoleAdmin {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}
	upload, err := h.uploads.Presign(r.Context(), userID, kind, req.ContentType)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, upload)
}
