package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/catalog"
	"github.com/ariefcatur/go-realtime-storefront/internal/config"
	"github.com/ariefcatur/go-realtime-storefront/internal/events"
	"github.com/ariefcatur/go-realtime-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/logging"
	"github.com/ariefcatur/go-realtime-storefront/internal/postgres"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
	"github.com/ariefcatur/go-realtime-storefront/internal/searchhistory"
	"github.com/ariefcatur/go-realtime-storefront/internal/shopping"
	"github.com/ariefcatur/go-realtime-storefront/internal/storage"
	"github.com/ariefcatur/go-realtime-storefront/internal/toast"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := catalog.LoadSeed()
	if err != nil {
		fatal(log, "load catalog", err)
	}

	// Redis backs the redis storage backend and the popularity endpoint.
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	var popularity redis.Cmdable
	if err := rdb.Ping(ctx).Err(); err != nil {
		if cfg.StorageBackend == "redis" {
			fatal(log, "redis ping", err)
		}
		log.Warn("redis unavailable, popularity disabled", "addr", cfg.RedisAddr, "err", err)
	} else {
		popularity = rdb
	}

	// Storage
	var store storage.Store
	switch cfg.StorageBackend {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			fatal(log, "db connect", err)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			fatal(log, "db migrate", err)
		}
		store = &storage.PostgresStore{DB: db, Namespace: cfg.StorageNamespace}
	case "redis":
		store = storage.NewRedisStore(rdb, cfg.StorageNamespace)
	default:
		store = storage.NewMemoryStore()
	}
	log.Info("storage ready", "backend", cfg.StorageBackend, "namespace", cfg.StorageNamespace)

	svc := storage.NewService(store, log)
	syncer := storage.NewSyncer(store, log)
	syncer.Start(ctx)

	// Kafka producer
	opts := []shopping.Option{shopping.WithPersister(syncer), shopping.WithLogger(log)}
	var prod *kafkax.Producer
	if cfg.EventsEnabled {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, events.TopicShopping, 1024, log)
		prod.Start(ctx)
		opts = append(opts, shopping.WithEvents(events.NewPublisher(prod, cfg.ServiceName)))
	}

	// Client state
	mgr := shopping.New(opts...)
	mgr.Restore(ctx, svc)
	hist := searchhistory.New(syncer, log)
	hist.Load(ctx, svc)
	bus := toast.NewBus()

	router := httpx.NewRouter()
	h := &httpx.StorefrontHandler{
		Catalog:  cat,
		Reviews:  catalog.NewReviewBook(cat),
		Shopping: mgr,
		History:  hist,
		Storage:  svc,
		Clearer:  syncer,
		Toasts:   bus,
		Redis:    popularity,
		ToastTTL: cfg.ToastTTL,
		Log:      log,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "products", cat.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "listen", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	// open toast streams only return once the bus is closed
	bus.Close()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error("http shutdown", "err", err)
	}

	syncer.Close()
	if prod != nil {
		prod.Close()
	}
	cancel()
	syncer.WaitClosed()
	if prod != nil {
		prod.WaitClosed()
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}
