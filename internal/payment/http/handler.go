package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	filehttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
)

type Handler struct {
	service     payment.Service
	fileHandler *filehttp.Handler
}

func NewHandler(service payment.Service, fileHandler *filehttp.Handler) *Handler {
	return &Handler{service: service, fileHandler: fileHandler}
}

// Record stores a payment after checking it against what is still owed.
func (h *Handler) Record(c *gin.Context) {
	var body RecordPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	receipt, err := h.service.Record(c.Request.Context(), auth.GetPrincipal(c), payment.RecordRequest{
		BookingID:       body.BookingID,
		RebookingID:     body.RebookingID,
		Amount:          body.Amount,
		IsDownPayment:   body.IsDownPayment,
		Method:          body.Method,
		ReferenceNumber: body.ReferenceNumber,
		PaidAt:          body.PaidAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, RecordPaymentResponse{
		PaymentResponse: NewResponse(receipt.Payment),
		Balance:         receipt.Balance,
	})
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.service.Get(c.Request.Context(), auth.GetPrincipal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(p))
}

func (h *Handler) List(c *gin.Context) {
	var req ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.BindError(c, err)
		return
	}

	list, total, err := h.service.List(c.Request.Context(), auth.GetPrincipal(c), payment.Filter{
		BookingID:   req.BookingID,
		RebookingID: req.RebookingID,
		Method:      req.Method,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PaymentResponse, len(list))
	for i, p := range list {
		items[i] = NewResponse(p)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// UploadReceipt stores a private receipt scan and attaches it to the payment.
func (h *Handler) UploadReceipt(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	principal := auth.GetPrincipal(c)
	if _, err := h.service.Get(c.Request.Context(), principal, uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, filehttp.FileUploadConfig{
		FormFieldName: "receipt",
		MaxSizeBytes:  filehttp.MaxReceiptBytes,
		AllowedTypes:  filehttp.ReceiptTypes,
		AfterUpload: func(ctx context.Context, fileID string) error {
			return h.service.AttachReceipt(ctx, principal, uri.ID, fileID)
		},
	})
}
