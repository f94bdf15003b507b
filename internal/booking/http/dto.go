package http

import (
	"time"

	"github.com/farmconnect/backend/internal/booking"
	listHttp "github.com/farmconnect/backend/internal/listing/http"
	"github.com/farmconnect/backend/internal/pkg/request"
	userHttp "github.com/farmconnect/backend/internal/user/http"
)

type CreateBookingBody struct {
	ListingID string    `json:"listing_id" binding:"required,uuid"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// Validate performs custom validation for CreateBookingBody.
func (b *CreateBookingBody) Validate() error {
	if !b.EndDate.After(b.StartDate) {
		return booking.ErrInvalidDateRange
	}
	return nil
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	ListingID string     `form:"listing_id" binding:"omitempty,uuid"`
	Status    string     `form:"status" binding:"omitempty,oneof=pending confirmed rejected active completed cancelled"`
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return booking.ErrInvalidDateRange
	}
	return nil
}

type UpdateStatusBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed rejected active completed cancelled"`
}

type BookingResponse struct {
	ID        string              `json:"id"`
	Listing   listHttp.ListingTag `json:"listing"`
	Renter    userHttp.UserTag    `json:"renter"`
	StartDate time.Time           `json:"start_date"`
	EndDate   time.Time           `json:"end_date"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Listing:   listHttp.ListingTag{ID: b.ListingID, Title: b.ListingTitle},
		Renter:    userHttp.UserTag{ID: b.RenterID, Name: b.RenterName},
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
