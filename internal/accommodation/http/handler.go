package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	filehttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
)

type Handler struct {
	service     accommodation.Service
	fileHandler *filehttp.Handler
}

func NewHandler(service accommodation.Service, fileHandler *filehttp.Handler) *Handler {
	return &Handler{service: service, fileHandler: fileHandler}
}

// List returns accommodations. Guests and customers only see active ones.
func (h *Handler) List(c *gin.Context) {
	var req ListAccommodationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.BindError(c, err)
		return
	}
	filter := accommodation.Filter{
		Type:        accommodation.Type(req.Type),
		Keyword:     req.Keyword,
		MinCapacity: req.MinCapacity,
		IsActive:    req.IsActive,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	}
	// Alphabetical unless the client asked otherwise.
	if c.Query("sort_order") == "" {
		filter.SortOrder = ""
	}
	if !auth.GetPrincipal(c).IsStaff() {
		active := true
		filter.IsActive = &active
	}

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AccommodationResponse, len(list))
	for i, a := range list {
		items[i] = NewResponse(a)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !a.IsActive && !auth.GetPrincipal(c).IsStaff() {
		response.Error(c, accommodation.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewResponse(a))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAccommodationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), accommodation.CreateRequest{
		Name:        body.Name,
		Type:        body.Type,
		Description: body.Description,
		Capacity:    body.Capacity,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(a))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body UpdateAccommodationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), uri.ID, accommodation.UpdateRequest{
		Name:        body.Name,
		Type:        body.Type,
		Description: body.Description,
		Capacity:    body.Capacity,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(a))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage replaces the accommodation photo.
func (h *Handler) UploadImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if _, err := h.service.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, filehttp.FileUploadConfig{
		MaxSizeBytes: filehttp.MaxPhotoBytes,
		AllowedTypes: filehttp.PhotoTypes,
		ResizeImage:  true,
		Public:       true,
		AfterUpload: func(ctx context.Context, fileID string) error {
			return h.service.SetImage(ctx, uri.ID, fileID)
		},
	})
}

func (h *Handler) RemoveImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.RemoveImage(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
