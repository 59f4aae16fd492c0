package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/refund"
)

type Handler struct {
	service refund.Service
}

func NewHandler(service refund.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Issue(c *gin.Context) {
	var body IssueRefundRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.service.Issue(c.Request.Context(), auth.GetPrincipal(c), refund.IssueRequest{
		PaymentID: body.PaymentID,
		Amount:    body.Amount,
		Method:    body.Method,
		Reason:    body.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(r))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.service.Get(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(r))
}

func (h *Handler) List(c *gin.Context) {
	var req ListRefundsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.BindError(c, err)
		return
	}

	list, total, err := h.service.List(c.Request.Context(), refund.Filter{
		PaymentID: req.PaymentID,
		BookingID: req.BookingID,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RefundResponse, len(list))
	for i, r := range list {
		items[i] = NewResponse(r)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}
