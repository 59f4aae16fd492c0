package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/feedback"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
)

type Handler struct {
	service feedback.Service
}

func NewHandler(service feedback.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Submit(c *gin.Context) {
	var body SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	actor := auth.GetPrincipal(c)
	f, err := h.service.Submit(c.Request.Context(), actor, feedback.SubmitRequest{
		BookingID: body.BookingID,
		Name:      body.Name,
		Email:     body.Email,
		Rating:    body.Rating,
		Comment:   body.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(f, actor.IsStaff()))
}

// List returns feedback. The public only sees published entries.
func (h *Handler) List(c *gin.Context) {
	var req ListFeedbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.BindError(c, err)
		return
	}

	staff := auth.GetPrincipal(c).IsStaff()
	filter := feedback.Filter{
		BookingID:   req.BookingID,
		IsPublished: req.IsPublished,
		Rating:      req.Rating,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortOrder:   req.SortOrder,
	}
	if !staff {
		published := true
		filter.IsPublished = &published
		filter.BookingID = ""
	}

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]FeedbackResponse, len(list))
	for i, f := range list {
		items[i] = NewResponse(f, staff)
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
	staff := auth.GetPrincipal(c).IsStaff()
	if !f.IsPublished && !staff {
		response.Error(c, feedback.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewResponse(f, staff))
}

func (h *Handler) Publish(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body PublishRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	f, err := h.service.SetPublished(c.Request.Context(), uri.ID, *body.IsPublished)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(f, true))
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
