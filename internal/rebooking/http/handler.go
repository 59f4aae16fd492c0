package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking"
)

type Handler struct {
	service rebooking.Service
}

func NewHandler(service rebooking.Service) *Handler {
	return &Handler{service: service}
}

// Create requests new dates, party size or accommodations for a booking.
func (h *Handler) Create(c *gin.Context) {
	var body CreateRebookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	changes, err := body.toChanges()
	if err != nil {
		response.BindError(c, err)
		return
	}

	rb, err := h.service.Request(c.Request.Context(), auth.GetPrincipal(c), body.BookingID, changes)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(rb))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	rb, err := h.service.Get(c.Request.Context(), auth.GetPrincipal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rb))
}

func (h *Handler) List(c *gin.Context) {
	var req ListRebookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.BindError(c, err)
		return
	}

	list, total, err := h.service.List(c.Request.Context(), auth.GetPrincipal(c), rebooking.Filter{
		BookingID: req.BookingID,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RebookingResponse, len(list))
	for i, rb := range list {
		items[i] = NewResponse(rb)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Update replaces the proposal of a pending rebooking.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body ChangesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	changes, err := body.toChanges()
	if err != nil {
		response.BindError(c, err)
		return
	}

	rb, err := h.service.Update(c.Request.Context(), auth.GetPrincipal(c), uri.ID, changes)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rb))
}

type decision func(ctx context.Context, actor auth.Principal, id, remarks string) (*rebooking.Rebooking, error)

// decide binds the id and optional remarks shared by approve, reject and
// cancel.
func (h *Handler) decide(c *gin.Context, fn decision) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body RemarksRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BindError(c, err)
			return
		}
	}

	rb, err := fn(c.Request.Context(), auth.GetPrincipal(c), uri.ID, body.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rb))
}

// Approve applies the rebooking to its booking.
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.decide(c, h.service.Cancel)
}

// Complete closes an approved rebooking whose adjustment has been paid.
func (h *Handler) Complete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	rb, err := h.service.Complete(c.Request.Context(), auth.GetPrincipal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rb))
}
