// Package app assembles the ticket service from configuration. The HTTP
// server and the admin CLI share it.
package app

import (
	"context"
	"fmt"

	"instapic-ticketing/internal/catalog"
	"instapic-ticketing/internal/config"
	"instapic-ticketing/internal/database"
	"instapic-ticketing/internal/kafka"
	"instapic-ticketing/internal/logger"
	"instapic-ticketing/internal/payment"
	"instapic-ticketing/internal/sse"
	ticket_db "instapic-ticketing/internal/tickets/db"
	"instapic-ticketing/internal/tickets/qr"
	"instapic-ticketing/internal/tickets/service"

	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"
)

type App struct {
	Config   *config.Config
	Settings config.Settings
	Logger   *logger.Logger

	DB       *bun.DB
	Store    *ticket_db.DB
	Catalog  *catalog.Catalog
	Redis    *redis.Client
	Producer *kafka.Producer
	Service  *service.TicketService
}

// New loads settings and the catalog, opens the store and builds the ticket
// service. Redis and Kafka are connected only when enabled.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	settings, err := config.LoadSettings(cfg.Paths.Settings)
	if err != nil {
		return nil, err
	}
	if settings.SecretKey == config.DefaultSecretKey {
		log.Warn("CONFIG", "SECRET_KEY is the default value; QR codes and Mirror tokens are not safe")
	}

	cat, err := catalog.Load(cfg.Paths.Catalog)
	if err != nil {
		return nil, err
	}
	log.Info("CONFIG", fmt.Sprintf("Loaded %d packages from %s", len(cat.All()), cfg.Paths.Catalog))

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Settings: settings,
		Logger:   log,
		DB:       bunDB,
		Store:    &ticket_db.DB{Bun: bunDB},
		Catalog:  cat,
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, cfg.Database, bunDB, log); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	if cfg.Redis.Enabled {
		a.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))
	}

	a.Service = service.NewTicketService(a.Store, cat, a.newVerifier(), log, service.Options{
		DefaultEventCode: settings.DefaultEventCode,
		MaxCodeAttempts:  cfg.Codes.MaxAttempts,
	})
	a.Service.QR = qr.NewQRGenerator(settings.SecretKey)
	a.Service.Emitter = sse.NewTicketEventEmitter()

	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.TicketIssued, cfg.Kafka.Topics.TicketUsed}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		a.Producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, log)
		a.Service.Publisher = a.Producer
		log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for %v", cfg.Kafka.Brokers))
	}

	return a, nil
}

func (a *App) newVerifier() payment.Verifier {
	if a.Config.Stripe.SecretKey == "" {
		a.Logger.Warn("PAYMENT", "No payment provider configured; only dev issuance will work")
		return payment.Unconfigured{}
	}
	verifier, err := payment.NewStripeVerifier(a.Config.Stripe.SecretKey, a.Logger)
	if err != nil {
		a.Logger.Error("PAYMENT", fmt.Sprintf("Falling back to unconfigured verifier: %v", err))
		return payment.Unconfigured{}
	}
	return verifier
}

func (a *App) CheckoutURLs() payment.CheckoutURLs {
	return payment.CheckoutURLs(a.Settings.CheckoutURLs)
}

func (a *App) Close() {
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			a.Logger.Warn("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
