package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"portfolio-backend/internal/domains/portfolio/model"
	"portfolio-backend/internal/domains/portfolio/service"
	"portfolio-backend/internal/shared/middleware"
	"portfolio-backend/internal/shared/response"
)

// Multipart form field names.
const (
	formFieldTitle          = "title"
	formFieldDescription    = "description"
	formFieldGitLink        = "git_link"
	formFieldContent        = "content"
	formFieldSkills         = "skills"
	formFieldRepresentative = "representative_image"
	formFieldImages         = "images"
)

type Handler struct {
	service service.PortfolioService
}

func NewHandler(service service.PortfolioService) *Handler {
	return &Handler{service: service}
}

// =====================================================
// COMMANDS
// =====================================================

// Create - POST /v1/portfolios (multipart/form-data)
func (h *Handler) Create(c *gin.Context) {
	callerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	req := model.CreatePortfolioRequest{
		Title:       formValue(form, formFieldTitle),
		Description: formValue(form, formFieldDescription),
		GitLink:     formValue(form, formFieldGitLink),
		Content:     formValue(form, formFieldContent),
		Skills:      formSkills(form),
	}

	req.Representative, err = readSingleUpload(form, formFieldRepresentative)
	if err != nil {
		response.BadRequest(c, "failed to read representative image")
		return
	}
	req.Images, err = readUploads(form, formFieldImages)
	if err != nil {
		response.BadRequest(c, "failed to read gallery images")
		return
	}

	p, err := h.service.Create(c.Request.Context(), callerID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, p)
}

// Update - PUT /v1/portfolios/:id (multipart/form-data)
//
// Absent scalar fields are left untouched; absent image parts keep the
// current media. The skills field is required on every update.
func (h *Handler) Update(c *gin.Context) {
	callerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid portfolio id")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	req := model.UpdatePortfolioRequest{
		Title:       formValuePtr(form, formFieldTitle),
		Description: formValuePtr(form, formFieldDescription),
		GitLink:     formValuePtr(form, formFieldGitLink),
		Content:     formValuePtr(form, formFieldContent),
		Skills:      formSkills(form),
	}

	req.Representative, err = readSingleUpload(form, formFieldRepresentative)
	if err != nil {
		response.BadRequest(c, "failed to read representative image")
		return
	}
	req.Images, err = readUploads(form, formFieldImages)
	if err != nil {
		response.BadRequest(c, "failed to read gallery images")
		return
	}

	p, err := h.service.Update(c.Request.Context(), callerID, portfolioID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// Delete - DELETE /v1/portfolios/:id
func (h *Handler) Delete(c *gin.Context) {
	callerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid portfolio id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), callerID, portfolioID); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": portfolioID})
}

// =====================================================
// QUERIES
// =====================================================

// Get - GET /v1/portfolios/:id
func (h *Handler) Get(c *gin.Context) {
	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid portfolio id")
		return
	}

	p, err := h.service.Find(c.Request.Context(), portfolioID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// List - GET /v1/portfolios
// Query params: sort, page, size
func (h *Handler) List(c *gin.Context) {
	page, size := pageParams(c)
	sortBy := c.DefaultQuery("sort", model.SortByCreatedAt)

	result, err := h.service.ListAll(c.Request.Context(), sortBy, page, size)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Items, &response.Meta{
		Page:  result.Page,
		Size:  result.Size,
		Total: result.Total,
	})
}

// ListByOwner - GET /v1/users/:userId/portfolios
// Query params: sort, page, size
func (h *Handler) ListByOwner(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	page, size := pageParams(c)
	sortBy := c.DefaultQuery("sort", model.SortByCreatedAt)

	result, err := h.service.ListByOwner(c.Request.Context(), userID, sortBy, page, size)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Items, &response.Meta{
		Page:  result.Page,
		Size:  result.Size,
		Total: result.Total,
	})
}

// Search - GET /v1/portfolios/search
// Query params: category, value, sort, page, size
func (h *Handler) Search(c *gin.Context) {
	page, size := pageParams(c)
	sortBy := c.DefaultQuery("sort", model.SortByCreatedAt)
	category := c.Query("category")
	value := c.Query("value")

	result, err := h.service.Search(c.Request.Context(), page, size, category, sortBy, value)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Items, &response.Meta{
		Page:  result.Page,
		Size:  result.Size,
		Total: result.Total,
	})
}

// =====================================================
// COUNTERS
// =====================================================

// IncreaseViews - POST /v1/portfolios/:id/views
func (h *Handler) IncreaseViews(c *gin.Context) {
	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid portfolio id")
		return
	}

	// The viewer key prefers the authenticated user over the client IP.
	viewerKey := c.ClientIP()
	if userID, ok := middleware.UserIDFromContext(c); ok {
		viewerKey = userID.String()
	}

	if err := h.service.IncreaseViews(c.Request.Context(), portfolioID, viewerKey); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"counted": true})
}

// AdjustLikes - POST /v1/portfolios/:id/likes
// Body: {"delta": 1} or {"delta": -1}
func (h *Handler) AdjustLikes(c *gin.Context) {
	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid portfolio id")
		return
	}

	var body struct {
		Delta int64 `json:"delta"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.AdjustLikes(c.Request.Context(), portfolioID, body.Delta); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"adjusted": body.Delta})
}

// =====================================================
// HELPERS
// =====================================================

func pageParams(c *gin.Context) (int, int) {
	page, size := 0, 10
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			page = p
		}
	}
	if v := c.Query("size"); v != "" {
		if s, err := strconv.Atoi(v); err == nil {
			size = s
		}
	}
	return page, size
}

func formValue(form *multipart.Form, field string) string {
	if values, ok := form.Value[field]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

func formValuePtr(form *multipart.Form, field string) *string {
	if values, ok := form.Value[field]; ok && len(values) > 0 {
		return &values[0]
	}
	return nil
}

// formSkills distinguishes an absent skills field (nil) from an empty one,
// which the service treats differently.
func formSkills(form *multipart.Form) []string {
	values, ok := form.Value[formFieldSkills]
	if !ok {
		return nil
	}
	skills := make([]string, 0, len(values))
	skills = append(skills, values...)
	return skills
}

func readSingleUpload(form *multipart.Form, field string) (*model.ImageUpload, error) {
	files, ok := form.File[field]
	if !ok || len(files) == 0 {
		return nil, nil
	}
	upload, err := readUpload(files[0])
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func readUploads(form *multipart.Form, field string) ([]model.ImageUpload, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	uploads := make([]model.ImageUpload, 0, len(files))
	for _, fh := range files {
		upload, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (model.ImageUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return model.ImageUpload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return model.ImageUpload{}, err
	}

	return model.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// writeError maps domain errors onto the HTTP surface.
func writeError(c *gin.Context, err error) {
	var pfErr *model.PortfolioError
	if errors.As(err, &pfErr) {
		switch {
		case errors.Is(err, model.ErrPortfolioNotFound),
			errors.Is(err, model.ErrPortfolioNotSearched):
			response.ErrorResponse(c, http.StatusNotFound, pfErr.Code, pfErr.Message)
		case errors.Is(err, model.ErrNoPermission):
			response.ErrorResponse(c, http.StatusForbidden, pfErr.Code, pfErr.Message)
		case errors.Is(err, model.ErrInvalidSearchCondition),
			errors.Is(err, model.ErrInvalidPageRequest),
			errors.Is(err, model.ErrMissingSkills),
			errors.Is(err, model.ErrUnknownSkill):
			response.ErrorResponse(c, http.StatusBadRequest, pfErr.Code, pfErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, pfErr.Code, pfErr.Message)
		}
		return
	}

	// Validation errors from the DTOs read well enough to pass through.
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "BAD_REQUEST", "validation failed", validationErrs)
		return
	}

	response.InternalServerError(c, "internal server error")
}
