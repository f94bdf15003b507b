package listing

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/farmconnect/backend/internal/pkg/request"
	"github.com/farmconnect/backend/internal/pkg/storage"
)

const thumbnailSize = 200

// ImageUpload carries one uploaded image file into Create.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

type CreateRequest struct {
	OwnerID       string
	Type          string
	Title         string
	Description   string
	Category      string
	Brand         string
	Period        string
	PricePerHour  *float64
	PricePerDay   *float64
	PricePerWeek  *float64
	PricePerMonth *float64
	Location      string
	Pincode       string
	City          string
	State         string
	Condition     string
	Area          *float64
	Latitude      *float64
	Longitude     *float64
}

// UpdateRequest is a field-by-field patch. Optional distinguishes fields left
// out of the request from fields explicitly set to null.
type UpdateRequest struct {
	Type          request.Optional[string]
	Title         request.Optional[string]
	Description   request.Optional[string]
	Category      request.Optional[string]
	Brand         request.Optional[string]
	Period        request.Optional[string]
	PricePerHour  request.Optional[float64]
	PricePerDay   request.Optional[float64]
	PricePerWeek  request.Optional[float64]
	PricePerMonth request.Optional[float64]
	Location      request.Optional[string]
	Pincode       request.Optional[string]
	City          request.Optional[string]
	State         request.Optional[string]
	Condition     request.Optional[string]
	Area          request.Optional[float64]
	Latitude      request.Optional[float64]
	Longitude     request.Optional[float64]
	Available     request.Optional[bool]
}

type Service interface {
	Create(ctx context.Context, req CreateRequest, images []ImageUpload) (*Listing, error)
	GetByID(ctx context.Context, id string) (*Listing, error)
	Search(ctx context.Context, filter Filter) ([]*Listing, int, error)

	// Update applies the patch on behalf of callerID. A missing listing and a
	// listing owned by someone else both report ErrNotFound so that non-owners
	// cannot probe for existence.
	Update(ctx context.Context, id string, callerID string, req UpdateRequest) (*Listing, error)
}

type service struct {
	repo    Repository
	store   storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		store:   store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest, images []ImageUpload) (*Listing, error) {
	l, err := buildListing(req)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrImageRequired
	}

	// Store the files first, then commit the listing and its image rows in one
	// transaction. If either step fails the stored files are removed again, so
	// no orphaned listing record (or dangling reference) survives the request.
	var savedPaths []string
	cleanup := func() {
		for _, p := range savedPaths {
			if err := s.store.Delete(ctx, p); err != nil {
				log.Printf("cleanup of stored image %s failed: %v", p, err)
			}
		}
	}

	for i, upload := range images {
		img, err := s.storeImage(ctx, upload, i)
		if err != nil {
			cleanup()
			return nil, ErrImageStorage
		}
		savedPaths = append(savedPaths, img.StoragePath)
		if img.ThumbnailPath != nil {
			savedPaths = append(savedPaths, *img.ThumbnailPath)
		}
		l.Images = append(l.Images, *img)
	}

	if err := s.repo.Create(ctx, l); err != nil {
		cleanup()
		return nil, err
	}

	return l, nil
}

// storeImage writes the original file plus a best-effort thumbnail to storage.
func (s *service) storeImage(ctx context.Context, upload ImageUpload, position int) (*Image, error) {
	imageID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(upload.Filename))

	// Sharding path: listings/ab/UUID.ext
	shard := imageID[:2]
	storagePath := fmt.Sprintf("listings/%s/%s%s", shard, imageID, ext)

	if err := s.store.Save(ctx, storagePath, bytes.NewReader(upload.Content)); err != nil {
		return nil, fmt.Errorf("save image failed: %w", err)
	}

	var thumbnailPath *string
	thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(upload.Content), thumbnailSize)
	if err == nil {
		tPath := fmt.Sprintf("listings/%s/%s_thumb.jpg", shard, imageID)
		if err := s.store.Save(ctx, tPath, thumb); err == nil {
			thumbnailPath = &tPath
		}
	} else {
		log.Printf("thumbnail generation for %s failed: %v", upload.Filename, err)
	}

	return &Image{
		ID:            imageID,
		Filename:      upload.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   upload.ContentType,
		Size:          int64(len(upload.Content)),
		Position:      position,
	}, nil
}

func buildListing(req CreateRequest) (*Listing, error) {
	t := Type(req.Type)
	if !validType(t) {
		return nil, ErrInvalidType
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, ErrCategoryRequired
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, ErrLocationRequired
	}

	period := PeriodDay
	if req.Period != "" {
		period = Period(req.Period)
		if !validPeriod(period) {
			return nil, ErrInvalidPeriod
		}
	}

	var condition *Condition
	if req.Condition != "" {
		c := Condition(req.Condition)
		if !validCondition(c) {
			return nil, ErrInvalidCondition
		}
		condition = &c
	}

	l := &Listing{
		OwnerID:       req.OwnerID,
		Type:          t,
		Title:         req.Title,
		Description:   optional(req.Description),
		Category:      req.Category,
		Brand:         optional(req.Brand),
		Period:        period,
		PricePerHour:  req.PricePerHour,
		PricePerDay:   req.PricePerDay,
		PricePerWeek:  req.PricePerWeek,
		PricePerMonth: req.PricePerMonth,
		Location:      req.Location,
		Pincode:       optional(req.Pincode),
		City:          optional(req.City),
		State:         optional(req.State),
		Condition:     condition,
		Area:          req.Area,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Available:     true,
	}

	if l.PriceForPeriod() == nil {
		return nil, ErrPriceRequired
	}

	return l, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Search(ctx context.Context, filter Filter) ([]*Listing, int, error) {
	filter.Normalize()

	listings, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if !filter.HasGeo() {
		return listings, total, nil
	}

	// The store cannot compute great-circle distance, so the radius constraint
	// and pagination are applied here.
	var nearby []*Listing
	for _, l := range listings {
		if !l.HasCoordinates() {
			continue
		}
		d := haversineKm(*filter.UserLat, *filter.UserLong, *l.Latitude, *l.Longitude)
		if d <= filter.DistanceKm {
			nearby = append(nearby, l)
		}
	}

	total = len(nearby)
	if filter.Offset >= len(nearby) {
		return nil, total, nil
	}
	nearby = nearby[filter.Offset:]
	if len(nearby) > filter.Limit {
		nearby = nearby[:filter.Limit]
	}
	return nearby, total, nil
}

func (s *service) Update(ctx context.Context, id string, callerID string, req UpdateRequest) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != callerID {
		// Deliberately indistinguishable from a missing listing.
		return nil, ErrNotFound
	}

	if err := applyPatch(l, req); err != nil {
		return nil, err
	}
	if l.PriceForPeriod() == nil {
		return nil, ErrPriceRequired
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func applyPatch(l *Listing, req UpdateRequest) error {
	if req.Type.Set {
		t := Type(req.Type.Value)
		if !req.Type.Valid || !validType(t) {
			return ErrInvalidType
		}
		l.Type = t
	}
	if req.Title.Set {
		if !req.Title.Valid || strings.TrimSpace(req.Title.Value) == "" {
			return ErrTitleRequired
		}
		l.Title = req.Title.Value
	}
	if req.Description.Set {
		l.Description = req.Description.Ptr()
	}
	if req.Category.Set {
		if !req.Category.Valid || strings.TrimSpace(req.Category.Value) == "" {
			return ErrCategoryRequired
		}
		l.Category = req.Category.Value
	}
	if req.Brand.Set {
		l.Brand = req.Brand.Ptr()
	}
	if req.Period.Set {
		p := Period(req.Period.Value)
		if !req.Period.Valid || !validPeriod(p) {
			return ErrInvalidPeriod
		}
		l.Period = p
	}
	if req.PricePerHour.Set {
		l.PricePerHour = req.PricePerHour.Ptr()
	}
	if req.PricePerDay.Set {
		l.PricePerDay = req.PricePerDay.Ptr()
	}
	if req.PricePerWeek.Set {
		l.PricePerWeek = req.PricePerWeek.Ptr()
	}
	if req.PricePerMonth.Set {
		l.PricePerMonth = req.PricePerMonth.Ptr()
	}
	if req.Location.Set {
		if !req.Location.Valid || strings.TrimSpace(req.Location.Value) == "" {
			return ErrLocationRequired
		}
		l.Location = req.Location.Value
	}
	if req.Pincode.Set {
		l.Pincode = req.Pincode.Ptr()
	}
	if req.City.Set {
		l.City = req.City.Ptr()
	}
	if req.State.Set {
		l.State = req.State.Ptr()
	}
	if req.Condition.Set {
		if !req.Condition.Valid {
			l.Condition = nil
		} else {
			c := Condition(req.Condition.Value)
			if !validCondition(c) {
				return ErrInvalidCondition
			}
			l.Condition = &c
		}
	}
	if req.Area.Set {
		l.Area = req.Area.Ptr()
	}
	if req.Latitude.Set {
		l.Latitude = req.Latitude.Ptr()
	}
	if req.Longitude.Set {
		l.Longitude = req.Longitude.Ptr()
	}
	if req.Available.Set {
		if !req.Available.Valid {
			return ErrAvailableNull
		}
		l.Available = req.Available.Value
	}
	return nil
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometers between two
// coordinate pairs given in degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
