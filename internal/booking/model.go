package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/farmconnect/backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "booking not found")
	ErrListingNotFound    = apperror.New(http.StatusNotFound, "listing not found")
	ErrListingUnavailable = apperror.New(http.StatusBadRequest, "listing is not available")
	ErrInvalidDateRange   = apperror.New(http.StatusBadRequest, "start date must be before end date")
	ErrInvalidStatus      = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrTimeConflict       = apperror.New(http.StatusConflict, "requested dates overlap an existing booking")
	ErrPermissionDenied   = apperror.New(http.StatusForbidden, "permission denied")
	ErrStatusChanged      = apperror.New(http.StatusConflict, "booking status changed, reload and retry")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func validStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Role identifies which party may request a given transition.
type Role int

const (
	RoleRenter Role = iota
	RoleOwner
	RoleEither
)

// transitions is the allowed (current, next) -> required role table.
// pending -> confirmed | rejected   : listing owner decides
// pending | confirmed -> cancelled  : renter backs out
// confirmed -> active -> completed  : owner drives the rental lifecycle
// active -> cancelled               : either party aborts a running rental
var transitions = map[Status]map[Status]Role{
	StatusPending: {
		StatusConfirmed: RoleOwner,
		StatusRejected:  RoleOwner,
		StatusCancelled: RoleRenter,
	},
	StatusConfirmed: {
		StatusActive:    RoleOwner,
		StatusCancelled: RoleRenter,
	},
	StatusActive: {
		StatusCompleted: RoleOwner,
		StatusCancelled: RoleEither,
	},
}

// RequiredRole looks up the transition table.
func RequiredRole(from, to Status) (Role, bool) {
	role, ok := transitions[from][to]
	return role, ok
}

// TransitionError reports a (from, to) pair that is not in the table.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %q to %q", e.From, e.To)
}

func errInvalidTransition(from, to Status) error {
	e := &TransitionError{From: from, To: to}
	return apperror.Wrap(e, http.StatusBadRequest, e.Error())
}

// Booking is a reservation of a listing for a date range by a renter.
type Booking struct {
	ID             string
	ListingID      string
	ListingTitle   string
	ListingOwnerID string
	RenterID       string
	RenterName     *string
	StartDate      time.Time
	EndDate        time.Time
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter defines parameters for listing bookings. CallerID scopes visibility:
// only bookings where the caller is the renter or the listing owner match.
type Filter struct {
	CallerID  string
	ListingID string
	Status    string
	From      *time.Time // bookings ending on/after this date
	To        *time.Time // bookings starting on/before this date
	Limit     int
	Offset    int
}
