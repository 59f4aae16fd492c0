package http

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create places a booking. Guests without an account and customers create
// pending online bookings; staff record confirmed walk-ins.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	checkIn, err := parseDate(body.CheckIn)
	if err != nil {
		response.BindError(c, err)
		return
	}
	checkOut, err := parseDate(body.CheckOut)
	if err != nil {
		response.BindError(c, err)
		return
	}

	items := make([]booking.LineItemRequest, len(body.Accommodations))
	for i, item := range body.Accommodations {
		items[i] = booking.LineItemRequest{
			AccommodationID: item.AccommodationID,
			RateID:          item.RateID,
			Guests:          item.Guests,
		}
	}

	principal := auth.GetPrincipal(c)
	email := body.GuestEmail
	if email == "" && !principal.IsStaff() {
		email = auth.GetUserEmail(c)
	}

	b, err := h.service.Create(c.Request.Context(), principal, booking.CreateRequest{
		Source:              body.Source,
		GuestName:           body.GuestName,
		GuestEmail:          email,
		GuestPhone:          body.GuestPhone,
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		TotalAdults:         body.TotalAdults,
		TotalChildren:       body.TotalChildren,
		Items:               items,
		Remarks:             body.Remarks,
		DownPaymentRequired: body.DownPaymentRequired,
		DownPaymentAmount:   body.DownPaymentAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Get(c.Request.Context(), auth.GetPrincipal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
}

// Lookup finds a booking by id and guest email, for guests without an account.
func (h *Handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Lookup(c.Request.Context(), req.ID, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
}

// List returns bookings. Customers only see their own.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.BindError(c, err)
		return
	}

	filter := booking.Filter{
		Status:    req.Status,
		Source:    req.Source,
		Keyword:   req.Keyword,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.CheckInFrom != "" {
		from, err := parseDate(req.CheckInFrom)
		if err != nil {
			response.BindError(c, err)
			return
		}
		filter.CheckInFrom = &from
	}
	if req.CheckInTo != "" {
		to, err := parseDate(req.CheckInTo)
		if err != nil {
			response.BindError(c, err)
			return
		}
		filter.CheckInTo = &to
	}

	list, total, err := h.service.List(c.Request.Context(), auth.GetPrincipal(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(list))
	for i, b := range list {
		items[i] = NewResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// UpdateStatus moves a booking along its lifecycle. Customers may only
// cancel their own bookings.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), auth.GetPrincipal(c), uri.ID, booking.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
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

// Availability reports which of the requested accommodations are free for
// the whole stay.
func (h *Handler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		response.BindError(c, err)
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		response.BindError(c, err)
		return
	}

	taken, err := h.service.UnavailableAccommodations(c.Request.Context(), req.AccommodationIDs, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := AvailabilityResponse{
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Available:   []string{},
		Unavailable: []string{},
	}
	for _, id := range req.AccommodationIDs {
		if slices.Contains(taken, id) {
			resp.Unavailable = append(resp.Unavailable, id)
		} else if !slices.Contains(resp.Available, id) {
			resp.Available = append(resp.Available, id)
		}
	}
	c.JSON(http.StatusOK, resp)
}
