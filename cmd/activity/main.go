package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-realtime-storefront/internal/activity"
	"github.com/ariefcatur/go-realtime-storefront/internal/config"
	"github.com/ariefcatur/go-realtime-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/logging"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile).With("service", cfg.ServiceName+"-activity")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis ping", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}

	svc := &activity.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-activity",
		Log:         log,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ActivityGroup, events.TopicShopping, cfg.ActivityWorkers, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("activity consumer started", "group", cfg.ActivityGroup, "topic", events.TopicShopping, "workers", cfg.ActivityWorkers)
		if err := cons.Start(ctx, svc.HandleShoppingEvent); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer")
	case <-ctx.Done():
	}
	cancel()
	<-done
}
