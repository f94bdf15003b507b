package image

import (
	"net/http"
	"time"

	"github.com/farmconnect/backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "image not found")

// Image is the stored metadata for one listing photo.
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

// URL returns the public URL for accessing an image by its ID.
func URL(id string) string {
	return "/v1/images/" + id
}

// ThumbnailURL returns the public URL for an image's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/images/" + id + "/thumbnail"
}
