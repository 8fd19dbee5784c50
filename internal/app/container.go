package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/apartment"
	"github.com/nekogravitycat/brf-booking-backend/internal/api"
	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
	"github.com/nekogravitycat/brf-booking-backend/internal/booking"
	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/remote"
	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
	"github.com/nekogravitycat/brf-booking-backend/internal/roster"
)

const (
	fetchTimeout = 15 * time.Second
	jobTimeout   = time.Minute
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction    bool
	FrontendOrigins []string
	DBPool          *pgxpool.Pool
	Logger          *zap.Logger

	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	CSVURL             string
	ConfigURL          string
	GitHubToken        string
	RosterReloadSpec   string
	LoginRatePerMinute int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router    *gin.Engine
	Scheduler *cron.Cron
	// Jobs are run once at startup and then on the reload schedule.
	Jobs []Job
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	sessions := auth.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL)
	loginLimiter := auth.NewRateLimiter(cfg.LoginRatePerMinute)
	fetcher := remote.NewGitHubFetcher(cfg.GitHubToken, fetchTimeout)

	// Apartment Module
	aptRepo := apartment.NewPgxRepository(cfg.DBPool)
	aptService := apartment.NewService(aptRepo, passwordHasher)

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)
	importer := resource.NewImporter(resService, fetcher, resource.ResolveConfigURL(cfg.ConfigURL, cfg.CSVURL), cfg.Logger)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, resService, aptService, booking.RealClock{}, cfg.Logger)

	// RFID Roster
	rosterCache := roster.NewCache(fetcher, cfg.CSVURL, cfg.Logger)

	// Router
	router, err := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		FrontendOrigins:  cfg.FrontendOrigins,
		Logger:           cfg.Logger,
		ApartmentService: aptService,
		ResService:       resService,
		BookingService:   bookingService,
		Roster:           rosterCache,
		Sessions:         sessions,
		LoginLimiter:     loginLimiter,
		DB:               cfg.DBPool,
	})
	if err != nil {
		return nil, err
	}

	jobs := []Job{
		{Name: "rfid roster", Run: rosterCache.Reload},
		{Name: "booking config", Run: func(ctx context.Context) error {
			_, err := importer.Import(ctx)
			return err
		}},
	}

	scheduler, err := NewScheduler(cfg.RosterReloadSpec, jobTimeout, cfg.Logger, jobs...)
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:    router,
		Scheduler: scheduler,
		Jobs:      jobs,
	}, nil
}
