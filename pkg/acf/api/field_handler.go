package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-acf/pkg/acf"
)

// FieldResponse is the response body for a single decoded field
type FieldResponse struct {
	PostID int64       `json:"post_id"`
	Name   string      `json:"name"`
	Value  interface{} `json:"value"`
}

// FlexibleContentResponse is the response body for a flexible content field
type FlexibleContentResponse struct {
	PostID int64       `json:"post_id"`
	Name   string      `json:"name"`
	Blocks []acf.Block `json:"blocks"`
}

// ErrorResponse is the response body for failed requests
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// FieldHandler serves decoded ACF fields read-only
type FieldHandler struct {
	service acf.Service
}

// NewFieldHandler creates a new field handler
func NewFieldHandler(service acf.Service) *FieldHandler {
	return &FieldHandler{service: service}
}

// Routes returns the routes for posts and their fields
func (h *FieldHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{postID}", h.GetPost)
	r.Get("/{postID}/fields/{name}", h.GetField)
	r.Get("/{postID}/flexible/{name}", h.GetFlexibleContent)
	r.Get("/{postID}/images/{name}", h.GetImage)

	return r
}

// GetPost returns a post by ID
func (h *FieldHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		h.fail(w, r, err, "Failed to get post", "post_id", postID)
		return
	}
	render.JSON(w, r, post)
}

// GetField decodes one field. ?type= forces the field type.
func (h *FieldHandler) GetField(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	var (
		value interface{}
		err   error
	)
	if fieldType := r.URL.Query().Get("type"); fieldType != "" {
		value, err = h.service.GetFieldAs(r.Context(), postID, name, acf.FieldType(fieldType))
	} else {
		value, err = h.service.GetField(r.Context(), postID, name)
	}
	if err != nil {
		h.fail(w, r, err, "Failed to decode field", "post_id", postID, "field", name)
		return
	}

	render.JSON(w, r, FieldResponse{PostID: postID, Name: name, Value: value})
}

// GetFlexibleContent decodes a flexible content field into ordered blocks
func (h *FieldHandler) GetFlexibleContent(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	blocks, err := h.service.GetFlexibleContent(r.Context(), postID, name)
	if err != nil {
		h.fail(w, r, err, "Failed to decode flexible content", "post_id", postID, "field", name)
		return
	}

	render.JSON(w, r, FlexibleContentResponse{PostID: postID, Name: name, Blocks: blocks})
}

// GetImage decodes an image field. ?size= selects a variant and
// ?fallback=true returns the original when that variant is missing.
func (h *FieldHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	size := r.URL.Query().Get("size")

	var (
		image *acf.Image
		err   error
	)
	if size == "" {
		image, err = h.service.GetImage(r.Context(), postID, name)
	} else {
		fallback, _ := strconv.ParseBool(r.URL.Query().Get("fallback"))
		image, err = h.service.GetImageSize(r.Context(), postID, name, size, fallback)
	}
	if err != nil {
		h.fail(w, r, err, "Failed to decode image", "post_id", postID, "field", name)
		return
	}

	render.JSON(w, r, image)
}

func (h *FieldHandler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "postID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		slog.Error("Invalid post ID", "post_id", idStr, "request_id", RequestIDFromContext(r.Context()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid post ID")
		return 0, false
	}
	return id, true
}

func (h *FieldHandler) fail(w http.ResponseWriter, r *http.Request, err error, msg string, args ...interface{}) {
	status := statusFor(err)
	args = append(args, "request_id", RequestIDFromContext(r.Context()), "err", err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, args...)
	} else {
		slog.Warn(msg, args...)
	}
	h.respondError(w, r, status, err.Error())
}

func (h *FieldHandler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg, RequestID: RequestIDFromContext(r.Context())})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, acf.ErrPostNotFound), errors.Is(err, acf.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, acf.ErrMalformedKey):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
