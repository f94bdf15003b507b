package http

import (
	"time"

	imagePkg "github.com/farmconnect/backend/internal/image"
	"github.com/farmconnect/backend/internal/listing"
	"github.com/farmconnect/backend/internal/pkg/request"
	userHttp "github.com/farmconnect/backend/internal/user/http"
)

// CreateListingForm holds the structured fields of the multipart create
// request. The image files ride alongside under the "images" field.
type CreateListingForm struct {
	Type          string   `form:"type" binding:"required,oneof=equipment land"`
	Title         string   `form:"title" binding:"required"`
	Description   string   `form:"description"`
	Category      string   `form:"category" binding:"required"`
	Brand         string   `form:"brand"`
	Period        string   `form:"period" binding:"omitempty,oneof=hour day week month"`
	PricePerHour  *float64 `form:"price_per_hour" binding:"omitempty,gte=0"`
	PricePerDay   *float64 `form:"price_per_day" binding:"omitempty,gte=0"`
	PricePerWeek  *float64 `form:"price_per_week" binding:"omitempty,gte=0"`
	PricePerMonth *float64 `form:"price_per_month" binding:"omitempty,gte=0"`
	Location      string   `form:"location" binding:"required"`
	Pincode       string   `form:"pincode"`
	City          string   `form:"city"`
	State         string   `form:"state"`
	Condition     string   `form:"condition" binding:"omitempty,oneof=new good fair"`
	Area          *float64 `form:"area" binding:"omitempty,gte=0"`
	Latitude      *float64 `form:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `form:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

// SearchListingsRequest defines the query parameters for listing search.
type SearchListingsRequest struct {
	request.ListParams
	Query         string   `form:"q"`
	Type          string   `form:"type" binding:"omitempty,oneof=equipment land"`
	Category      string   `form:"category"`
	Brand         string   `form:"brand"`
	Condition     string   `form:"condition" binding:"omitempty,oneof=new good fair"`
	PriceMinHour  *float64 `form:"price_min_hour" binding:"omitempty,gte=0"`
	PriceMaxHour  *float64 `form:"price_max_hour" binding:"omitempty,gte=0"`
	PriceMinDay   *float64 `form:"price_min_day" binding:"omitempty,gte=0"`
	PriceMaxDay   *float64 `form:"price_max_day" binding:"omitempty,gte=0"`
	PriceMinWeek  *float64 `form:"price_min_week" binding:"omitempty,gte=0"`
	PriceMaxWeek  *float64 `form:"price_max_week" binding:"omitempty,gte=0"`
	PriceMinMonth *float64 `form:"price_min_month" binding:"omitempty,gte=0"`
	PriceMaxMonth *float64 `form:"price_max_month" binding:"omitempty,gte=0"`
	Location      string   `form:"location"`
	Pincode       string   `form:"pincode"`
	Available     *bool    `form:"available"`
	UserLat       *float64 `form:"user_lat" binding:"omitempty,gte=-90,lte=90"`
	UserLong      *float64 `form:"user_long" binding:"omitempty,gte=-180,lte=180"`
	DistanceKm    float64  `form:"distance_km" binding:"omitempty,gt=0"`
}

// ToFilter converts the query parameters into a listing.Filter.
func (r *SearchListingsRequest) ToFilter() listing.Filter {
	return listing.Filter{
		Query:         r.Query,
		Type:          r.Type,
		Category:      r.Category,
		Brand:         r.Brand,
		Condition:     r.Condition,
		PriceMinHour:  r.PriceMinHour,
		PriceMaxHour:  r.PriceMaxHour,
		PriceMinDay:   r.PriceMinDay,
		PriceMaxDay:   r.PriceMaxDay,
		PriceMinWeek:  r.PriceMinWeek,
		PriceMaxWeek:  r.PriceMaxWeek,
		PriceMinMonth: r.PriceMinMonth,
		PriceMaxMonth: r.PriceMaxMonth,
		Location:      r.Location,
		Pincode:       r.Pincode,
		Available:     r.Available,
		UserLat:       r.UserLat,
		UserLong:      r.UserLong,
		DistanceKm:    r.DistanceKm,
		Limit:         r.Limit,
		Offset:        r.Offset,
	}
}

// UpdateListingBody is the partial update payload. Every field is optional;
// an explicit null clears nullable fields.
type UpdateListingBody struct {
	Type          request.Optional[string]  `json:"type"`
	Title         request.Optional[string]  `json:"title"`
	Description   request.Optional[string]  `json:"description"`
	Category      request.Optional[string]  `json:"category"`
	Brand         request.Optional[string]  `json:"brand"`
	Period        request.Optional[string]  `json:"period"`
	PricePerHour  request.Optional[float64] `json:"price_per_hour"`
	PricePerDay   request.Optional[float64] `json:"price_per_day"`
	PricePerWeek  request.Optional[float64] `json:"price_per_week"`
	PricePerMonth request.Optional[float64] `json:"price_per_month"`
	Location      request.Optional[string]  `json:"location"`
	Pincode       request.Optional[string]  `json:"pincode"`
	City          request.Optional[string]  `json:"city"`
	State         request.Optional[string]  `json:"state"`
	Condition     request.Optional[string]  `json:"condition"`
	Area          request.Optional[float64] `json:"area"`
	Latitude      request.Optional[float64] `json:"latitude"`
	Longitude     request.Optional[float64] `json:"longitude"`
	Available     request.Optional[bool]    `json:"available"`
}

// ToUpdateRequest converts the body into the service-level patch.
func (b *UpdateListingBody) ToUpdateRequest() listing.UpdateRequest {
	return listing.UpdateRequest{
		Type:          b.Type,
		Title:         b.Title,
		Description:   b.Description,
		Category:      b.Category,
		Brand:         b.Brand,
		Period:        b.Period,
		PricePerHour:  b.PricePerHour,
		PricePerDay:   b.PricePerDay,
		PricePerWeek:  b.PricePerWeek,
		PricePerMonth: b.PricePerMonth,
		Location:      b.Location,
		Pincode:       b.Pincode,
		City:          b.City,
		State:         b.State,
		Condition:     b.Condition,
		Area:          b.Area,
		Latitude:      b.Latitude,
		Longitude:     b.Longitude,
		Available:     b.Available,
	}
}

// ListingTag is the minimal listing reference embedded in other responses.
type ListingTag struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ImageResponse struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Position     int     `json:"position"`
}

type ListingResponse struct {
	ID            string           `json:"id"`
	Owner         userHttp.UserTag `json:"owner"`
	Type          string           `json:"type"`
	Title         string           `json:"title"`
	Description   *string          `json:"description"`
	Category      string           `json:"category"`
	Brand         *string          `json:"brand"`
	Period        string           `json:"period"`
	PricePerHour  *float64         `json:"price_per_hour"`
	PricePerDay   *float64         `json:"price_per_day"`
	PricePerWeek  *float64         `json:"price_per_week"`
	PricePerMonth *float64         `json:"price_per_month"`
	Location      string           `json:"location"`
	Pincode       *string          `json:"pincode"`
	City          *string          `json:"city"`
	State         *string          `json:"state"`
	Condition     *string          `json:"condition"`
	Area          *float64         `json:"area"`
	Latitude      *float64         `json:"latitude"`
	Longitude     *float64         `json:"longitude"`
	Available     bool             `json:"available"`
	Images        []ImageResponse  `json:"images"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func NewListingResponse(l *listing.Listing) ListingResponse {
	images := make([]ImageResponse, len(l.Images))
	for i, img := range l.Images {
		var thumbURL *string
		if img.ThumbnailPath != nil {
			t := imagePkg.ThumbnailURL(img.ID)
			thumbURL = &t
		}
		images[i] = ImageResponse{
			ID:           img.ID,
			URL:          imagePkg.URL(img.ID),
			ThumbnailURL: thumbURL,
			Position:     img.Position,
		}
	}

	var condition *string
	if l.Condition != nil {
		c := string(*l.Condition)
		condition = &c
	}

	return ListingResponse{
		ID:            l.ID,
		Owner:         userHttp.UserTag{ID: l.OwnerID, Name: l.OwnerName},
		Type:          string(l.Type),
		Title:         l.Title,
		Description:   l.Description,
		Category:      l.Category,
		Brand:         l.Brand,
		Period:        string(l.Period),
		PricePerHour:  l.PricePerHour,
		PricePerDay:   l.PricePerDay,
		PricePerWeek:  l.PricePerWeek,
		PricePerMonth: l.PricePerMonth,
		Location:      l.Location,
		Pincode:       l.Pincode,
		City:          l.City,
		State:         l.State,
		Condition:     condition,
		Area:          l.Area,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		Available:     l.Available,
		Images:        images,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
