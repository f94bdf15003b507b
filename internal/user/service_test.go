package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	byID    map[string]*User
	byEmail map[string]*User
	nextID  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *fakeRepository) Create(ctx context.Context, u *User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return ErrEmailAlreadyUsed
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now().UTC()
	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = &stored
	return nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

// plainHasher makes hashes trivially inspectable in tests.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func TestRegister(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, plainHasher{})
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{
		Email:       "  Ravi@Example.COM ",
		Password:    "longenough",
		DisplayName: "Ravi",
		Phone:       " ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ravi@example.com", u.Email, "email is normalized before storing")
	assert.Equal(t, "hashed:longenough", u.PasswordHash)
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Ravi", *u.DisplayName)
	assert.Nil(t, u.Phone, "blank phone is stored as null")
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepository(), plainHasher{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "  ", Password: "longenough"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepository(), plainHasher{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	// The normalized form collides even when the raw input differs.
	_, err = svc.Register(ctx, RegisterRequest{Email: "A@B.COM", Password: "longenough"})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, plainHasher{})
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	u, err := svc.Login(ctx, "A@B.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc := NewService(newFakeRepository(), plainHasher{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	// Unknown email and wrong password produce the same error, so callers
	// cannot tell which accounts exist.
	_, unknownErr := svc.Login(ctx, "nobody@b.com", "longenough")
	_, wrongPassErr := svc.Login(ctx, "a@b.com", "not the password")
	_, emptyErr := svc.Login(ctx, "a@b.com", "  ")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, emptyErr, ErrInvalidCredentials)
}
