package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/supermall/supermall-api/internal/api"
	"github.com/supermall/supermall-api/internal/auth"
	"github.com/supermall/supermall-api/internal/cache"
	"github.com/supermall/supermall-api/internal/config"
	"github.com/supermall/supermall-api/internal/events"
	"github.com/supermall/supermall-api/internal/metrics"
	"github.com/supermall/supermall-api/internal/repository"
	"github.com/supermall/supermall-api/internal/service"
	"github.com/supermall/supermall-api/pkg/db"
)

const bannerCacheTTL = 30 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)

	conn, err := db.NewPostgresConnection(cfg.MallDB)
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MallDB.MigrationsPath); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	promo := metrics.NewPromoMetrics()

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
		slog.Info("kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	userRepo := repository.NewUserRepo(conn)
	categoryRepo := repository.NewCategoryRepo(conn)
	shopRepo := repository.NewShopRepo(conn)
	productRepo := repository.NewProductRepo(conn)
	offerRepo := repository.NewOfferRepo(conn)
	bannerRepo := repository.NewBannerRepo(conn)

	router := api.NewRouter(api.Deps{
		Tokens:     tokens,
		Auth:       service.NewAuthService(userRepo, tokens),
		Categories: service.NewCategoryService(categoryRepo),
		Shops:      service.NewShopService(shopRepo, categoryRepo),
		Products:   service.NewProductService(productRepo, shopRepo, categoryRepo),
		Offers:     service.NewOfferService(offerRepo, shopRepo, productRepo, promo, publisher),
		Banners:    service.NewBannerService(bannerRepo, shopRepo, cache.New(bannerCacheTTL), promo, publisher),

		ClickRatePerSecond: 5,
		ClickBurst:         10,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	slog.Info("starting mall-api", "addr", srv.Addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("listen failed", "error", err)
		os.Exit(1)
	}

	<-idleConnsClosed
	slog.Info("server stopped")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
