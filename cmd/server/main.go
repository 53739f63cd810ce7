package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Coco120903/batinos-garden-resort/internal/booking"
	"github.com/Coco120903/batinos-garden-resort/internal/config"
	"github.com/Coco120903/batinos-garden-resort/internal/database"
	"github.com/Coco120903/batinos-garden-resort/internal/handler"
	"github.com/Coco120903/batinos-garden-resort/internal/middleware"
	"github.com/Coco120903/batinos-garden-resort/internal/queue"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
	"github.com/Coco120903/batinos-garden-resort/internal/router"
	"github.com/Coco120903/batinos-garden-resort/internal/service"
	"github.com/Coco120903/batinos-garden-resort/internal/settings"
	"github.com/Coco120903/batinos-garden-resort/migrations"
)

func main() {
	// Local development reads .env; production sets real env vars.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrations.Apply(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrations: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; features degrade
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	services := repository.NewServiceRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)
	chat := repository.NewChatRepo(db)
	siteSettings := repository.NewSettingsRepo(db)
	media := repository.NewMediaRepo(db)

	gate := settings.NewGate(siteSettings, rdb, cacheCfg.SettingsTTL)
	engine := booking.NewEngine(services, bookings, gate)
	lifecycle := booking.NewLifecycle(bookings)

	smtpPort, _ := strconv.Atoi(cfg.SMTPPort)
	mailer := service.NewMailer(cfg.SMTPHost, smtpPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, cfg.FrontendURL)
	events := service.NewEventPublisher(cfg.AMQPURL)

	go queue.StartConsumer(cfg.AMQPURL, mailer)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.RateLimit(rateCfg, rdb))
	e.Use(middleware.OptionalJWT(cfg.JWTSecret))
	e.Use(middleware.Maintenance(gate))

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens, mailer),
		Booking:      handler.NewBookingHandler(engine, bookings, events),
		AdminBooking: handler.NewAdminBookingHandler(lifecycle, bookings, events),
		Service:      handler.NewServiceHandler(services),
		Review:       handler.NewReviewHandler(reviews, users),
		Site:         handler.NewSiteHandler(siteSettings, gate),
		Chat:         handler.NewChatHandler(chat),
		User:         handler.NewUserHandler(cfg, users, tokens),
		Media:        handler.NewMediaHandler(media),
		Verified:     middleware.RequireVerified(users),
		JWTSecret:    cfg.JWTSecret,
		PublicCache:  middleware.ResponseCache(cacheCfg, rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
