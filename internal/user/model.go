package user

import (
	"net/http"
	"time"

	"github.com/farmconnect/backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

// User represents a registered account.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Phone        *string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
