package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nvalmar/postdeck-be/internal/auth"
	"github.com/nvalmar/postdeck-be/internal/models"
	"github.com/nvalmar/postdeck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests for the post lifecycle.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload is the request body for create and edit. A nil Status on edit
// keeps the post's current status.
type PostPayload struct {
	Title   string             `json:"title"`
	Content string             `json:"content"`
	Status  *models.PostStatus `json:"status,omitempty"`
	Tags    []string           `json:"tags,omitempty"`
}

func includeDeleted(r *http.Request) bool {
	return r.URL.Query().Get("includeDeleted") == "true"
}

// writePostError maps service errors to status codes. Ownership failures
// and missing posts share one 404 on purpose.
func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFoundOrForbidden):
		http.Error(w, "Post not found", http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("Post operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Create handles the request to create a new post owned by the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.Create(identity.UserID, payload.Title, payload.Content, payload.Status, payload.Tags)
	if err != nil {
		writePostError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// Edit handles the request to update a post the caller owns.
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.Edit(identity.UserID, chi.URLParam(r, "id"), payload.Title, payload.Content, payload.Status, payload.Tags)
	if err != nil {
		writePostError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// SoftDelete handles hiding a post the caller owns.
func (h *PostHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := h.service.SoftDelete(identity.UserID, chi.URLParam(r, "id")); err != nil {
		writePostError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles bringing a soft-deleted post back.
func (h *PostHandler) Restore(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := h.service.Restore(identity.UserID, chi.URLParam(r, "id")); err != nil {
		writePostError(w, err)
		return
	}

	post, err := h.service.Get(chi.URLParam(r, "id"), false)
	if err != nil {
		writePostError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// Get handles the request to get a single post by its ID.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(chi.URLParam(r, "id"), includeDeleted(r))
	if err != nil {
		writePostError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// GetAll handles the request to list every post.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListAll(includeDeleted(r))
	if err != nil {
		writePostError(w, err)
		return
	}
	writePostList(w, posts)
}

// GetMine lists the caller's own posts.
func (h *PostHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	posts, err := h.service.ListByOwner(identity.UserID, includeDeleted(r))
	if err != nil {
		writePostError(w, err)
		return
	}
	writePostList(w, posts)
}

// GetByUser lists the posts of one owner.
func (h *PostHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListByOwner(chi.URLParam(r, "userID"), includeDeleted(r))
	if err != nil {
		writePostError(w, err)
		return
	}
	writePostList(w, posts)
}

// Search finds posts whose title or content contains the search term,
// optionally filtered to one status.
func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	var status *models.PostStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.PostStatus(s)
		status = &st
	}

	posts, err := h.service.Search(chi.URLParam(r, "term"), status, includeDeleted(r))
	if err != nil {
		writePostError(w, err)
		return
	}
	writePostList(w, posts)
}

func writePostList(w http.ResponseWriter, posts []models.Post) {
	if posts == nil {
		posts = []models.Post{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}
