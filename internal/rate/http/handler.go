package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
)

type Handler struct {
	service rate.Service
}

func NewHandler(service rate.Service) *Handler {
	return &Handler{service: service}
}

// ListByAccommodation returns the rates of one accommodation, cheapest first.
func (h *Handler) ListByAccommodation(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var req ListRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	filter := rate.Filter{
		AccommodationID: uri.ID,
		IsActive:        req.IsActive,
		Page:            req.Page,
		PageSize:        req.PageSize,
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

	items := make([]RateResponse, len(list))
	for i, r := range list {
		items[i] = NewResponse(r)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !r.IsActive && !auth.GetPrincipal(c).IsStaff() {
		response.Error(c, rate.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewResponse(r))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), rate.CreateRequest{
		AccommodationID: body.AccommodationID,
		Name:            body.Name,
		Price:           *body.Price,
		Unit:            body.Unit,
		IsActive:        body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(r))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body UpdateRateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.service.Update(c.Request.Context(), uri.ID, rate.UpdateRequest{
		Name:     body.Name,
		Price:    body.Price,
		Unit:     body.Unit,
		IsActive: body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(r))
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
