package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ecowall/models"
	"ecowall/storage"
	"ecowall/store"
)

const requestTimeout = 10 * time.Second

// PostStore is the slice of the store the post endpoints rely on.
type PostStore interface {
	Create(ctx context.Context, in store.CreateInput) (*models.Post, error)
	List(ctx context.Context, opts store.ListOptions) ([]models.Post, int64, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ToggleLike(ctx context.Context, id, actorID string) (likes int, hasLiked bool, err error)
	AddComment(ctx context.Context, id, author, text string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (*models.ImageMeta, error)
}

// Uploader persists and removes image files.
type Uploader interface {
	Save(file *multipart.FileHeader) (*models.ImageMeta, error)
	Remove(filename string) error
}

type PostHandler struct {
	Store   PostStore
	Uploads Uploader
}

func NewPostHandler(posts PostStore, uploads Uploader) *PostHandler {
	return &PostHandler{Store: posts, Uploads: uploads}
}

// List handles GET /api/posts.
func (h *PostHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", store.DefaultPageSize)
	// Keep the pagination math below in agreement with the page size the
	// store will actually apply.
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}

	posts, total, err := h.Store.List(ctx, store.ListOptions{
		Category:  c.Query("category"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		logrus.WithError(err).Error("list posts failed")
		respondError(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	for i := range posts {
		shapePost(c, &posts[i])
	}

	totalPages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    posts,
		"pagination": gin.H{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalPosts":  total,
			"hasNextPage": page < totalPages,
			"hasPrevPage": page > 1,
		},
	})
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	post, err := h.Store.GetByID(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("get post failed")
		respondError(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	shapePost(c, post)
	respondData(c, http.StatusOK, post)
}

// Create handles POST /api/posts (multipart). The image file is persisted
// first; if the insert then fails, the orphaned file is removed best-effort.
func (h *PostHandler) Create(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to parse form data")
		return
	}
	files := form.File[storage.FieldName]
	switch {
	case len(files) == 0:
		respondError(c, http.StatusBadRequest, "Image is required")
		return
	case len(files) > 1:
		respondError(c, http.StatusBadRequest, storage.ErrTooMany.Error())
		return
	}

	image, err := h.Uploads.Save(files[0])
	if errors.Is(err, storage.ErrNotImage) || errors.Is(err, storage.ErrTooLarge) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logrus.WithError(err).Error("save upload failed")
		respondError(c, http.StatusInternalServerError, "Failed to save image")
		return
	}

	post, err := h.Store.Create(ctx, store.CreateInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Author:      c.PostForm("author"),
		Image:       image,
	})
	if err != nil {
		// The file is already on disk with no record pointing at it.
		if cleanupErr := h.Uploads.Remove(image.Filename); cleanupErr != nil {
			logrus.WithError(cleanupErr).Warn("orphaned upload cleanup failed")
		}

		var verr *store.ValidationError
		if errors.As(err, &verr) {
			respondError(c, http.StatusBadRequest, verr.Message)
			return
		}
		logrus.WithError(err).Error("create post failed")
		respondError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	shapePost(c, post)
	respondData(c, http.StatusCreated, post)
}

// ToggleLike handles PUT /api/posts/:id/like. Identity resolution: a userId
// in the body wins, then one set by the identity middleware, then the
// caller's IP. Anonymous likes therefore dedupe per address, not per browser.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var body struct {
		UserID string `json:"userId"`
	}
	// Body is optional; ignore bind failures and fall through to IP.
	_ = c.ShouldBindJSON(&body)

	actor := strings.TrimSpace(body.UserID)
	if actor == "" {
		actor = c.GetString("userId")
	}
	if actor == "" {
		actor = c.ClientIP()
	}

	likes, hasLiked, err := h.Store.ToggleLike(ctx, c.Param("id"), actor)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("toggle like failed")
		respondError(c, http.StatusInternalServerError, "Failed to update like")
		return
	}

	respondData(c, http.StatusOK, gin.H{"likes": likes, "hasLiked": hasLiked})
}

// AddComment handles POST /api/posts/:id/comments.
func (h *PostHandler) AddComment(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var body struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Comment text is required")
		return
	}

	comment, err := h.Store.AddComment(ctx, c.Param("id"), body.Author, body.Text)
	if err != nil {
		var verr *store.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(c, http.StatusBadRequest, verr.Message)
		case errors.Is(err, store.ErrNotFound):
			respondError(c, http.StatusNotFound, "Post not found")
		default:
			logrus.WithError(err).Error("add comment failed")
			respondError(c, http.StatusInternalServerError, "Failed to add comment")
		}
		return
	}

	respondData(c, http.StatusCreated, comment)
}

// Delete handles DELETE /api/posts/:id. The record goes first, then the image
// file; a file that cannot be removed is logged, not surfaced.
func (h *PostHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	image, err := h.Store.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("delete post failed")
		respondError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	if err := h.Uploads.Remove(image.Filename); err != nil {
		logrus.WithError(err).Warn("image cleanup after delete failed")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted successfully"})
}
