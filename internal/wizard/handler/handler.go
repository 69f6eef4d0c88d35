// Package handler provides HTTP handlers for the publishing wizard endpoints.
package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/backend"
	"github.com/festy23/trip_publisher/internal/publish"
	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/service"
)

// Handler handles HTTP requests for wizard endpoints.
type Handler struct {
	service     service.Service
	logger      *zap.SugaredLogger
	maxBodySize int64
}

// New creates a new wizard handler instance. maxBodySize bounds multipart uploads.
func New(svc service.Service, logger *zap.SugaredLogger, maxBodySize int64) *Handler {
	return &Handler{service: svc, logger: logger, maxBodySize: maxBodySize}
}

// caller returns the request context carrying the bearer token, and the session owner key.
func caller(c *gin.Context) (context.Context, string) {
	token := backend.BearerToken(c.GetHeader("Authorization"))
	return backend.WithToken(c.Request.Context(), token), backend.OwnerFromToken(token)
}

// handleError maps service errors onto the error envelope.
func (h *Handler) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		notFoundResponse(c, "wizard session not found")
	case errors.Is(err, model.ErrForbidden):
		errorResponse(c, "FORBIDDEN", err.Error(), http.StatusForbidden)
	case errors.Is(err, model.ErrBusy),
		errors.Is(err, model.ErrUploadInProgress),
		errors.Is(err, model.ErrPublished),
		errors.Is(err, model.ErrNotPublished),
		errors.Is(err, model.ErrAssetLimit),
		errors.Is(err, model.ErrCommunityLimit),
		errors.Is(err, publish.ErrInvalidTransition):
		errorResponse(c, "CONFLICT", err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrInvalidFieldValue),
		errors.Is(err, model.ErrIndexOutOfRange),
		errors.Is(err, model.ErrUnknownCategory),
		errors.Is(err, model.ErrInvalidCommunity),
		errors.Is(err, model.ErrNoFiles):
		invalidRequest(c, err.Error())
	default:
		h.logger.Errorw("wizard request failed", "op", op, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		invalidRequest(c, "index must be a non-negative integer")
		return 0, false
	}
	return index, true
}

// CreateSession handles POST /wizard/sessions request.
// @Summary Start a publishing wizard session
// @Tags Wizard
// @Produce json
// @Success 201 {object} map[string]model.SessionView "Response wrapped in session object"
// @Router /wizard/sessions [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) CreateSession(c *gin.Context) {
	ctx, owner := caller(c)
	view, err := h.service.Create(ctx, owner)
	if err != nil {
		h.handleError(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": view})
}

// GetSession handles GET /wizard/sessions/:id request.
// @Summary Get the wizard state
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]model.SessionView "Response wrapped in session object"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Router /wizard/sessions/{id} [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetSession(c *gin.Context) {
	ctx, owner := caller(c)
	view, err := h.service.Get(ctx, c.Param("id"), owner)
	if err != nil {
		h.handleError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// DeleteSession handles DELETE /wizard/sessions/:id request.
// @Summary Discard a wizard session
// @Tags Wizard
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Session not found"
// @Router /wizard/sessions/{id} [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) DeleteSession(c *gin.Context) {
	ctx, owner := caller(c)
	if err := h.service.Delete(ctx, c.Param("id"), owner); err != nil {
		h.handleError(c, "delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetFields handles PATCH /wizard/sessions/:id/fields request.
// @Summary Set form fields with inline validation
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.ActionResponse
// @Failure 400 {object} ErrorResponse "Unknown field or invalid value"
// @Router /wizard/sessions/{id}/fields [patch] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) SetFields(c *gin.Context) {
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil || len(values) == 0 {
		invalidRequest(c, "invalid request body")
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.SetFields(ctx, c.Param("id"), owner, values)
	h.reply(c, "set_fields", resp, err)
}

// AddTags handles POST /wizard/sessions/:id/tags request.
func (h *Handler) AddTags(c *gin.Context) {
	var req model.TagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "raw is required")
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.AddTags(ctx, c.Param("id"), owner, req.Raw)
	h.reply(c, "add_tags", resp, err)
}

// RemoveTag handles DELETE /wizard/sessions/:id/tags/:value request.
func (h *Handler) RemoveTag(c *gin.Context) {
	ctx, owner := caller(c)
	resp, err := h.service.RemoveTag(ctx, c.Param("id"), owner, c.Param("value"))
	h.reply(c, "remove_tag", resp, err)
}

// ToggleCategory handles POST /wizard/sessions/:id/categories/toggle request.
func (h *Handler) ToggleCategory(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "category is required")
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.ToggleCategory(ctx, c.Param("id"), owner, req.Category)
	h.reply(c, "toggle_category", resp, err)
}

// AddTeamMember handles POST /wizard/sessions/:id/team request.
// @Summary Add a registered or unregistered travel companion
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body model.TeamMemberRequest true "Member"
// @Success 200 {object} model.ActionResponse "Duplicates come back as warning notices"
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Router /wizard/sessions/{id}/team [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) AddTeamMember(c *gin.Context) {
	var req model.TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "kind must be registered or unregistered")
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.AddTeamMember(ctx, c.Param("id"), owner, req)
	h.reply(c, "add_team_member", resp, err)
}

// RemoveTeamMember handles DELETE /wizard/sessions/:id/team/:index request.
func (h *Handler) RemoveTeamMember(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	ctx, owner := caller(c)
	resp, err := h.service.RemoveTeamMember(ctx, c.Param("id"), owner, index)
	h.reply(c, "remove_team_member", resp, err)
}

// UploadScreenshots handles POST /wizard/sessions/:id/screenshots request.
// @Summary Upload screenshots (multipart field files)
// @Tags Wizard
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.ActionResponse "Per-file failures and dropped files come back as notices"
// @Failure 400 {object} ErrorResponse "No files"
// @Failure 409 {object} ErrorResponse "Upload already in progress"
// @Router /wizard/sessions/{id}/screenshots [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) UploadScreenshots(c *gin.Context) {
	files, ok := h.formFiles(c, "files", "files[]", "file")
	if !ok {
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.UploadScreenshots(ctx, c.Param("id"), owner, files)
	h.reply(c, "upload_screenshots", resp, err)
}

// RemoveScreenshot handles DELETE /wizard/sessions/:id/screenshots/:index request.
func (h *Handler) RemoveScreenshot(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	ctx, owner := caller(c)
	resp, err := h.service.RemoveScreenshot(ctx, c.Param("id"), owner, index)
	h.reply(c, "remove_screenshot", resp, err)
}

// GetPreview handles GET /wizard/sessions/:id/screenshots/:index/preview request.
func (h *Handler) GetPreview(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	ctx, owner := caller(c)
	preview, err := h.service.Preview(ctx, c.Param("id"), owner, index)
	if errors.Is(err, model.ErrIndexOutOfRange) {
		notFoundResponse(c, "preview not found")
		return
	}
	if err != nil {
		h.handleError(c, "preview", err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/jpeg", preview)
}

// UploadGuide handles POST /wizard/sessions/:id/guide request.
func (h *Handler) UploadGuide(c *gin.Context) {
	files, ok := h.formFiles(c, "file")
	if !ok {
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.UploadGuide(ctx, c.Param("id"), owner, files[0])
	h.reply(c, "upload_guide", resp, err)
}

// RemoveGuide handles DELETE /wizard/sessions/:id/guide request.
func (h *Handler) RemoveGuide(c *gin.Context) {
	ctx, owner := caller(c)
	resp, err := h.service.RemoveGuide(ctx, c.Param("id"), owner)
	h.reply(c, "remove_guide", resp, err)
}

// ToggleCommunity handles POST /wizard/sessions/:id/communities/toggle request.
func (h *Handler) ToggleCommunity(c *gin.Context) {
	var req model.CommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "slug is required")
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.ToggleCommunity(ctx, c.Param("id"), owner, req.Slug)
	h.reply(c, "toggle_community", resp, err)
}

// Next handles POST /wizard/sessions/:id/next request.
func (h *Handler) Next(c *gin.Context) {
	ctx, owner := caller(c)
	resp, err := h.service.Next(ctx, c.Param("id"), owner)
	h.reply(c, "next", resp, err)
}

// Back handles POST /wizard/sessions/:id/back request.
func (h *Handler) Back(c *gin.Context) {
	ctx, owner := caller(c)
	resp, err := h.service.Back(ctx, c.Param("id"), owner)
	h.reply(c, "back", resp, err)
}

// GoTo handles POST /wizard/sessions/:id/step request.
func (h *Handler) GoTo(c *gin.Context) {
	var req model.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "step is required")
		return
	}

	ctx, owner := caller(c)
	resp, err := h.service.GoTo(ctx, c.Param("id"), owner, req.Step)
	h.reply(c, "goto", resp, err)
}

// Submit handles POST /wizard/sessions/:id/submit request.
// @Summary Validate the whole draft and publish it
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.ActionResponse "Validation and server errors come back in the session view"
// @Failure 409 {object} ErrorResponse "Submission or upload in progress"
// @Router /wizard/sessions/{id}/submit [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Submit(c *gin.Context) {
	ctx, owner := caller(c)
	resp, err := h.service.Submit(ctx, c.Param("id"), owner)
	h.reply(c, "submit", resp, err)
}

// Dismiss handles POST /wizard/sessions/:id/dismiss request.
// @Summary Take the success modal's action
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.DismissResponse
// @Failure 409 {object} ErrorResponse "Nothing published"
// @Router /wizard/sessions/{id}/dismiss [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Dismiss(c *gin.Context) {
	ctx, owner := caller(c)
	resp, err := h.service.Dismiss(ctx, c.Param("id"), owner)
	if err != nil {
		h.handleError(c, "dismiss", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) reply(c *gin.Context, op string, resp *model.ActionResponse, err error) {
	if err != nil {
		h.handleError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// formFiles reads the multipart files under the first key that has any.
func (h *Handler) formFiles(c *gin.Context, keys ...string) ([]upload.File, bool) {
	if h.maxBodySize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorResponse(c, "PAYLOAD_TOO_LARGE", "upload exceeds size limit", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		invalidRequest(c, "multipart form expected")
		return nil, false
	}

	for _, key := range keys {
		headers := form.File[key]
		if len(headers) == 0 {
			continue
		}
		files := make([]upload.File, 0, len(headers))
		for _, fh := range headers {
			files = append(files, fileFromHeader(fh))
		}
		return files, true
	}

	h.handleError(c, "form_files", model.ErrNoFiles)
	return nil, false
}

func fileFromHeader(fh *multipart.FileHeader) upload.File {
	return upload.File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
