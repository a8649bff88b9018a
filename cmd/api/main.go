package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shoppee/shoppee-backend/internal/accounts"
	"github.com/shoppee/shoppee-backend/internal/analytics"
	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/cart"
	"github.com/shoppee/shoppee-backend/internal/catalog"
	"github.com/shoppee/shoppee-backend/internal/config"
	"github.com/shoppee/shoppee-backend/internal/httpx"
	"github.com/shoppee/shoppee-backend/internal/invoice"
	kafkax "github.com/shoppee/shoppee-backend/internal/kafka"
	"github.com/shoppee/shoppee-backend/internal/maintenance"
	"github.com/shoppee/shoppee-backend/internal/messages"
	"github.com/shoppee/shoppee-backend/internal/orders"
	"github.com/shoppee/shoppee-backend/internal/payment"
	"github.com/shoppee/shoppee-backend/internal/postgres"
	"github.com/shoppee/shoppee-backend/internal/pricing"
	"github.com/shoppee/shoppee-backend/internal/redisx"
	"github.com/shoppee/shoppee-backend/internal/sessions"
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

	// the producer outlives the signal context so in-flight handlers can
	// still publish during drain; Close() after Shutdown flushes it
	producer := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderEvents, 1024)
	producer.Start(context.Background())

	productRepo := &catalog.ProductRepo{DB: pool}
	categoryRepo := &catalog.CategoryRepo{DB: pool}
	brandRepo := &catalog.BrandRepo{DB: pool}
	flashSaleRepo := &catalog.FlashSaleRepo{DB: pool}
	priceResolver := &pricing.Resolver{Sales: flashSaleRepo}

	cartRepo := &cart.Repo{DB: pool}
	cartSvc := &cart.Service{Store: cartRepo, Products: productRepo, Pricing: priceResolver}

	invoiceSvc := &invoice.Service{Counter: &invoice.PgCounter{DB: pool}}
	orderSvc := &orders.Service{
		Store:    &orders.Repo{DB: pool},
		Products: productRepo,
		Pricing:  priceResolver,
		Gateway:  payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		Invoices: invoiceSvc,
		Producer: producer,
		Secret:   cfg.RazorpayKeySecret,
		Service:  cfg.ServiceName,
	}

	sessionSvc := &sessions.Service{
		Store: &sessions.Repo{DB: pool},
		Geo:   sessions.NewIPAPIClient(),
		Cache: rdb,
	}

	router := httpx.NewRouter(httpx.Deps{
		Tokens:      &auth.Tokens{Secret: cfg.JWTSecret, CookieSecure: cfg.CookieSecure},
		Maintenance: &maintenance.Store{DB: pool, Cache: rdb},
		Users:       &accounts.UserRepo{DB: pool},
		Admins:      &accounts.AdminRepo{DB: pool},
		Addresses:   &accounts.AddressRepo{DB: pool},
		Products:    productRepo,
		Categories:  categoryRepo,
		Brands:      brandRepo,
		FlashSales:  flashSaleRepo,
		Carts:       cartSvc,
		CartStore:   cartRepo,
		Orders:      orderSvc,
		Messages:    &messages.Repo{DB: pool},
		Analytics:   &analytics.Repo{DB: pool},
		Sessions:    sessionSvc,
		Cache:       rdb,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// flush buffered events before exiting
	producer.Close()
	producer.WaitClosed()
	log.Println("bye")
	os.Exit(0)
}
