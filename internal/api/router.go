package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/apartment"
	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
	"github.com/nekogravitycat/brf-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/brf-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
	resHttp "github.com/nekogravitycat/brf-booking-backend/internal/resource/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction    bool
	FrontendOrigins []string
	Logger          *zap.Logger

	ApartmentService apartment.Service
	ResService       resource.Service
	BookingService   booking.Service
	Roster           RosterLookup
	Sessions         *auth.SessionManager
	LoginLimiter     *auth.RateLimiter
	DB               Pinger
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, logging, auth) and registering routes for every module.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	// Session cookies cross origins, so credentials must be allowed.
	if len(cfg.FrontendOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = cfg.FrontendOrigins
		config.AllowCredentials = true
		config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		config.MaxAge = 12 * time.Hour
		r.Use(cors.New(config))
	}

	authMiddleware := auth.SessionRequired(cfg.Sessions)

	authHandler := NewAuthHandler(cfg.ApartmentService, cfg.Roster, cfg.Sessions, cfg.IsProduction, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.DB, cfg.Logger)
	resHandler := resHttp.NewHandler(cfg.ResService, cfg.BookingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	root := r.Group("")
	{
		root.GET("/health", healthHandler.Health)

		login := root.Group("", cfg.LoginLimiter.Limit())
		login.POST("/rfid-login", authHandler.RFIDLogin)
		login.POST("/mobile-login", authHandler.MobileLogin)

		session := root.Group("", authMiddleware)
		session.GET("/session", authHandler.Session)
		session.POST("/mobile-password", authHandler.ChangePassword)
		session.POST("/logout", authHandler.Logout)

		resHttp.RegisterRoutes(root, resHandler, authMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, authMiddleware)
	}

	return r, nil
}
