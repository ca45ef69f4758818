package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"campushub/internal/achievements"
	"campushub/internal/announcements"
	"campushub/internal/api"
	"campushub/internal/clubs"
	"campushub/internal/config"
	"campushub/internal/events"
	"campushub/internal/queue"
	"campushub/internal/registrations"
	"campushub/internal/store"
	"campushub/internal/uploader"
)

func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "campushub-api").Logger()
	if cfg.Env != "production" && cfg.Env != "prod" {
		log = log.Level(zerolog.DebugLevel)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg config.App, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		eventStore events.Store
		regStore   registrations.Store
		clubStore  clubs.Store
		achStore   achievements.Store
		annStore   announcements.Store
		purger     events.RegistrationPurger
		checks     []api.HealthCheck
	)

	if cfg.StoreBackend == "memory" {
		log.Warn().Msg("using in-memory stores, data is not persisted")
		em := events.NewMemoryStore()
		rm := registrations.NewMemoryStore(em)
		eventStore, regStore, purger = em, rm, rm
		clubStore = clubs.NewMemoryStore()
		achStore = achievements.NewMemoryStore()
		annStore = announcements.NewMemoryStore()
	} else {
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		pm := registrations.NewPostgresStore(db.Client)
		eventStore = events.NewPostgresStore(db.Client)
		regStore, purger = pm, pm
		clubStore = clubs.NewPostgresStore(db.Client)
		achStore = achievements.NewPostgresStore(db.Client)
		annStore = announcements.NewPostgresStore(db.Client)
		checks = append(checks, func(ctx context.Context) map[string]bool {
			return map[string]bool{"db": db.Client.PingContext(ctx) == nil}
		})
	}

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		redisClient := store.NewRedis(cfg.RedisAddr)
		q = queue.NewRedisQueue(redisClient.Client, "campushub:notices")
		checks = append(checks, func(ctx context.Context) map[string]bool {
			return map[string]bool{"redis": redisClient.Healthy(ctx)}
		})
	}

	eventSvc := events.NewService(eventStore, achStore, purger, log, nil)
	regSvc := registrations.NewService(regStore, eventSvc, q, log, nil)
	clubSvc := clubs.NewService(clubStore, log, nil)
	achSvc := achievements.NewService(achStore, eventSvc, log, nil)
	annSvc := announcements.NewService(annStore, clubStore, log, nil)

	var up uploader.Uploader
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		up = uploader.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Info().Str("cloud", cfg.CloudinaryCloudName).Msg("cloudinary configured")
	} else {
		log.Info().Msg("cloudinary not configured, uploads disabled")
	}

	health := func(ctx context.Context) map[string]bool {
		res := make(map[string]bool)
		for _, check := range checks {
			for k, v := range check(ctx) {
				res[k] = v
			}
		}
		return res
	}

	srv := api.New(cfg, log, eventSvc, regSvc, clubSvc, achSvc, annSvc, up, health)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
