package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/backend/internal/api"
	"github.com/farmconnect/backend/internal/auth"
	"github.com/farmconnect/backend/internal/booking"
	"github.com/farmconnect/backend/internal/image"
	"github.com/farmconnect/backend/internal/listing"
	"github.com/farmconnect/backend/internal/pkg/storage"
	"github.com/farmconnect/backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Storage      storage.Storage
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Listing Module
	listingRepo := listing.NewPgxRepository(cfg.DBPool)
	listingService := listing.NewService(listingRepo, cfg.Storage)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, listingService)

	// Image Module
	imageRepo := image.NewPgxRepository(cfg.DBPool)
	imageService := image.NewService(imageRepo, cfg.Storage)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		ListingService: listingService,
		BookingService: bookingService,
		ImageService:   imageService,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
