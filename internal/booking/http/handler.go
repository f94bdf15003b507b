package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmconnect/backend/internal/auth"
	"github.com/farmconnect/backend/internal/booking"
	"github.com/farmconnect/backend/internal/pkg/request"
	"github.com/farmconnect/backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create creates a booking against a listing for the authenticated renter.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		RenterID:  auth.GetUserID(c),
		ListingID: body.ListingID,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// List returns the bookings visible to the caller: those they made as a
// renter plus those made against their own listings.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}
	req.Normalize()

	filter := booking.Filter{
		CallerID:  auth.GetUserID(c),
		ListingID: req.ListingID,
		Status:    req.Status,
		From:      req.From,
		To:        req.To,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Limit, req.Offset, total))
}

// UpdateStatus transitions a booking through its state machine.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID"})
		return
	}

	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, body.Status, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
