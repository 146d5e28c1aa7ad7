package post

import (
	"errors"
	"net/http"

	"Souq/internal/api/handlers/common"
	"Souq/internal/core/posts"
)

// Request body caps: 5 images x 5 MiB plus form overhead on create, a
// single image plus form overhead on update.
const (
	maxCreateRequestBytes = 27 * 1024 * 1024
	maxUpdateRequestBytes = 6 * 1024 * 1024
)

// CreateHandler handles listing creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /api/posts
// Multipart form: listing fields plus up to 5 files under "images".
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateRequestBytes)

	if err := r.ParseMultipartForm(common.MaxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body exceeds the allowed size")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest",
			"Expected multipart form data")
		return
	}

	uploads, cleanup, err := common.OpenImages(r, "images")
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest",
			"Could not read uploaded images")
		return
	}
	defer cleanup()

	req := posts.CreatePostRequest{
		Fields: fieldsFromForm(r),
		Images: uploads,
	}

	response, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// fieldsFromForm reads the shared listing fields from a parsed form.
func fieldsFromForm(r *http.Request) posts.PostFields {
	return posts.PostFields{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		TitleAr:       r.FormValue("titleAr"),
		DescriptionAr: r.FormValue("descriptionAr"),
		Category:      r.FormValue("category"),
		WhatsApp:      r.FormValue("whatsapp"),
		Phone:         r.FormValue("phone"),
	}
}
