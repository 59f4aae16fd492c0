package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
)

type Handler struct {
	service faq.Service
}

func NewHandler(service faq.Service) *Handler {
	return &Handler{service: service}
}

// List returns FAQs in display order. Only staff see inactive entries.
func (h *Handler) List(c *gin.Context) {
	var req ListFAQsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.BindError(c, err)
		return
	}

	filter := faq.Filter{
		Keyword:  req.Keyword,
		IsActive: req.IsActive,
		Page:     req.Page,
		PageSize: req.PageSize,
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

	items := make([]FAQResponse, len(list))
	for i, f := range list {
		items[i] = NewResponse(f)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !f.IsActive && !auth.GetPrincipal(c).IsStaff() {
		response.Error(c, faq.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewResponse(f))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateFAQRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	f, err := h.service.Create(c.Request.Context(), faq.CreateRequest{
		Question:  body.Question,
		Answer:    body.Answer,
		SortOrder: body.SortOrder,
		IsActive:  body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(f))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body UpdateFAQRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	f, err := h.service.Update(c.Request.Context(), uri.ID, faq.UpdateRequest{
		Question:  body.Question,
		Answer:    body.Answer,
		SortOrder: body.SortOrder,
		IsActive:  body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(f))
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
