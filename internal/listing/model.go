package listing

import (
	"net/http"
	"time"

	"github.com/farmconnect/backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "listing not found")
	ErrInvalidType      = apperror.New(http.StatusBadRequest, "invalid listing type")
	ErrInvalidPeriod    = apperror.New(http.StatusBadRequest, "invalid pricing period")
	ErrInvalidCondition = apperror.New(http.StatusBadRequest, "invalid equipment condition")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrCategoryRequired = apperror.New(http.StatusBadRequest, "category is required")
	ErrLocationRequired = apperror.New(http.StatusBadRequest, "location is required")
	ErrPriceRequired    = apperror.New(http.StatusBadRequest, "price for the selected period is required")
	ErrImageRequired    = apperror.New(http.StatusBadRequest, "at least one image is required")
	ErrAvailableNull    = apperror.New(http.StatusBadRequest, "available cannot be null")
	ErrImageStorage     = apperror.New(http.StatusInternalServerError, "failed to store listing images")
)

// Type distinguishes what kind of asset is listed.
type Type string

const (
	TypeEquipment Type = "equipment"
	TypeLand      Type = "land"
)

// Period is the billing granularity a listing's price applies to.
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Condition describes the physical state of listed equipment.
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionGood Condition = "good"
	ConditionFair Condition = "fair"
)

// Image is a stored photo attached to a listing, ordered by Position.
type Image struct {
	ID            string
	ListingID     string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	Position      int
	CreatedAt     time.Time
}

// Listing represents a rentable equipment or land record owned by a user.
type Listing struct {
	ID            string
	OwnerID       string
	OwnerName     *string // joined from users
	Type          Type
	Title         string
	Description   *string
	Category      string
	Brand         *string
	Period        Period
	PricePerHour  *float64
	PricePerDay   *float64
	PricePerWeek  *float64
	PricePerMonth *float64
	Location      string
	Pincode       *string
	City          *string
	State         *string
	Condition     *Condition
	Area          *float64
	Latitude      *float64
	Longitude     *float64
	Available     bool
	Images        []Image
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PriceForPeriod returns the price field matching the declared period.
func (l *Listing) PriceForPeriod() *float64 {
	switch l.Period {
	case PeriodHour:
		return l.PricePerHour
	case PeriodDay:
		return l.PricePerDay
	case PeriodWeek:
		return l.PricePerWeek
	case PeriodMonth:
		return l.PricePerMonth
	}
	return nil
}

// HasCoordinates reports whether the listing carries geocoordinates.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Filter defines the search constraints for listings. All fields are optional
// and combine as a conjunction; the zero value matches every listing.
type Filter struct {
	Query     string
	Type      string
	Category  string
	Brand     string
	Condition string

	PriceMinHour  *float64
	PriceMaxHour  *float64
	PriceMinDay   *float64
	PriceMaxDay   *float64
	PriceMinWeek  *float64
	PriceMaxWeek  *float64
	PriceMinMonth *float64
	PriceMaxMonth *float64

	Location  string
	Pincode   string
	Available *bool

	// Geographic radius search around (UserLat, UserLong).
	UserLat    *float64
	UserLong   *float64
	DistanceKm float64

	Limit  int
	Offset int
}

// HasGeo reports whether a coordinate pair was supplied for radius filtering.
func (f *Filter) HasGeo() bool {
	return f.UserLat != nil && f.UserLong != nil
}

// Normalize applies defaults for pagination and search radius.
func (f *Filter) Normalize() {
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.DistanceKm <= 0 {
		f.DistanceKm = 100
	}
}

func validType(v Type) bool {
	return v == TypeEquipment || v == TypeLand
}

func validPeriod(v Period) bool {
	switch v {
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

func validCondition(v Condition) bool {
	switch v {
	case ConditionNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}
