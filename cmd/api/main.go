package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"trailbook/internal/database"
	"trailbook/internal/domain"
	"trailbook/internal/middleware"
	"trailbook/internal/modules/catalog"
	"trailbook/internal/modules/group"
	"trailbook/internal/modules/notification"
	"trailbook/internal/modules/pricing"
	"trailbook/internal/modules/realtime"
	"trailbook/internal/modules/reservation"
	"trailbook/internal/modules/waitlist"
	jwtsvc "trailbook/internal/pkg/jwt"
	"trailbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Experience{},
		&domain.Slot{},
		&domain.Booking{},
		&domain.Participant{},
		&domain.PaymentSplit{},
		&domain.WaitlistEntry{},
		&domain.Notification{},
	); err != nil {
		log.Fatal(err)
	}

	experienceRepo := repository.NewExperienceRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txm := repository.NewTxManager(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	hub := realtime.NewHub()
	defer hub.Close()
	realtimeHandler := realtime.NewHandler(hub)

	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService)

	prices := pricing.NewSlotPriceProvider(experienceRepo)

	catalogService := catalog.NewService(experienceRepo, prices, notificationService)
	catalogHandler := catalog.NewHandler(catalogService)

	reservationService := reservation.NewService(
		experienceRepo,
		inventoryRepo,
		bookingRepo,
		prices,
		txm,
		notificationService,
	)
	reservationHandler := reservation.NewHandler(reservationService)

	waitlistService := waitlist.NewService(
		waitlistRepo,
		experienceRepo,
		reservationService,
		notificationService,
		envDuration("WAITLIST_OFFER_TTL", 24*time.Hour),
	)
	waitlistHandler := waitlist.NewHandler(waitlistService)

	// cancellations free seats, freed seats promote waiters
	reservationService.AttachWaitlist(waitlistService)

	groupService := group.NewService(experienceRepo, prices, reservationService)
	groupHandler := group.NewHandler(groupService)

	scheduler, err := startOfferSweep(waitlistService)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = scheduler.Shutdown() }()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			reservationHandler.RegisterRoutes(protected)
			groupHandler.RegisterRoutes(protected)
			waitlistHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			realtimeHandler.RegisterRoutes(protected)
		}

		catalogHandler.RegisterRoutes(v1, protected)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// startOfferSweep runs the waitlist offer expiry pass on an interval so
// seats held by expired offers get released and re-offered.
func startOfferSweep(svc *waitlist.Service) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	interval := envDuration("WAITLIST_SWEEP_INTERVAL", time.Minute)
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if n, err := svc.SweepExpired(ctx); err != nil {
				log.Printf("waitlist sweep: %v", err)
			} else if n > 0 {
				log.Printf("waitlist sweep: expired %d offer(s)", n)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("invalid duration %q for %s, using %s", raw, key, fallback)
	return fallback
}
