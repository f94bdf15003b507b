package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/farmconnect/backend/internal/auth"
	"github.com/farmconnect/backend/internal/booking"
	bookingHttp "github.com/farmconnect/backend/internal/booking/http"
	"github.com/farmconnect/backend/internal/image"
	imageHttp "github.com/farmconnect/backend/internal/image/http"
	"github.com/farmconnect/backend/internal/listing"
	listingHttp "github.com/farmconnect/backend/internal/listing/http"
	"github.com/farmconnect/backend/internal/user"
	userHttp "github.com/farmconnect/backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	UserService    user.Service
	ListingService listing.Service
	BookingService booking.Service
	ImageService   image.Service
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	listingHandler := listingHttp.NewHandler(cfg.ListingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	imageHandler := imageHttp.NewHandler(cfg.ImageService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		listingHttp.RegisterRoutes(v1, listingHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		imageHttp.RegisterRoutes(v1, imageHandler)
	}

	return r
}
