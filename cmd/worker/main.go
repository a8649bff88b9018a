package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/shoppee/shoppee-backend/internal/audit"
	"github.com/shoppee/shoppee-backend/internal/config"
	kafkax "github.com/shoppee/shoppee-backend/internal/kafka"
	"github.com/shoppee/shoppee-backend/internal/orders"
	"github.com/shoppee/shoppee-backend/internal/postgres"
	"github.com/shoppee/shoppee-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &audit.Service{DB: pool, Cache: rdb, Service: "order-audit"}

	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, "order-audit", orders.TopicOrderEvents, 4)
	log.Printf("order-audit consuming %s", orders.TopicOrderEvents)
	if err := consumer.Start(ctx, svc.Handle); err != nil {
		log.Fatalf("consumer: %v", err)
	}
	log.Println("bye")
}
