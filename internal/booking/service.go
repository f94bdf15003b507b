package booking

import (
	"context"
	"time"

	"github.com/farmconnect/backend/internal/listing"
)

type CreateRequest struct {
	RenterID  string
	ListingID string
	StartDate time.Time
	EndDate   time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// UpdateStatus applies one step of the booking state machine on behalf of
	// callerID. The caller must hold the role the transition table requires;
	// a pair not in the table fails with a TransitionError and leaves the
	// stored status untouched.
	UpdateStatus(ctx context.Context, id string, newStatus string, callerID string) (*Booking, error)
}

type service struct {
	repo           Repository
	listingService listing.Service
}

func NewService(repo Repository, listingService listing.Service) Service {
	return &service{
		repo:           repo,
		listingService: listingService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	// Early validation for friendly errors; the repository re-checks both
	// conditions under a row lock when inserting.
	l, err := s.listingService.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !l.Available {
		return nil, ErrListingUnavailable
	}

	b := &Booking{
		ListingID: req.ListingID,
		RenterID:  req.RenterID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// Re-read to pick up the joined listing and renter fields.
	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, newStatus string, callerID string) (*Booking, error) {
	next := Status(newStatus)
	if !validStatus(next) {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isRenter := b.RenterID == callerID
	isOwner := b.ListingOwnerID == callerID
	if !isRenter && !isOwner {
		return nil, ErrPermissionDenied
	}

	role, ok := RequiredRole(b.Status, next)
	if !ok {
		return nil, errInvalidTransition(b.Status, next)
	}
	switch role {
	case RoleOwner:
		if !isOwner {
			return nil, ErrPermissionDenied
		}
	case RoleRenter:
		if !isRenter {
			return nil, ErrPermissionDenied
		}
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, b.Status, next); err != nil {
		return nil, err
	}

	// Re-read so the response carries the post-transition timestamps.
	return s.repo.GetByID(ctx, b.ID)
}
