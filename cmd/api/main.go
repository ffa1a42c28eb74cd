package main

import (
	"context"
	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/inventory"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/profile"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/store"
	"github.com/joho/godotenv"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.CheckSecrets(); err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	stores, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store open (%s): %v", cfg.StoreDriver, err)
	}
	defer stores.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pAdjusted := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicInventoryAdjusted, 1024)
	pAdjusted.Start(ctx)
	pCheckout := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCartCheckedOut, 1024)
	pCheckout.Start(ctx)

	// Services & handlers
	inv := &inventory.Service{
		Store:       stores.Inventory,
		Cache:       &redisx.StockCache{RDB: rdb, TTL: cfg.StockCacheTTL},
		Events:      pAdjusted,
		ServiceName: cfg.ServiceName,
	}
	carts := &cart.Service{
		Store:       stores.Cart,
		Stock:       inv,
		Events:      pCheckout,
		ServiceName: cfg.ServiceName,
	}
	profiles := &profile.Service{Store: stores.Profile}
	verifier := auth.NewVerifier(cfg.JWTSecret)

	router := httpx.NewRouter(cfg.CORSOrigins)
	(&httpx.InventoryHandler{Service: inv, Auth: verifier}).Register(router)
	(&httpx.ProfileHandler{Service: profiles, Auth: verifier}).Register(router)
	(&httpx.CartHandler{Service: carts, Auth: verifier}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Printf("HTTP listening at %s (store=%s)", cfg.HTTPAddr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pAdjusted.Close()
	pCheckout.Close()
	cancel()
	pAdjusted.WaitClosed()
	pCheckout.WaitClosed()
}
