package main

import (
	"context"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/inventory"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/store"
	"github.com/joho/godotenv"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
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

	// the producer outlives the consumer so in-flight workers can still publish
	pctx, pcancel := context.WithCancel(context.Background())
	defer pcancel()
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicInventoryAdjusted, 1024)
	prod.Start(pctx)

	svc := &inventory.Service{
		Store:       stores.Inventory,
		Cache:       &redisx.StockCache{RDB: rdb, TTL: cfg.StockCacheTTL},
		Events:      prod,
		Dedup:       &redisx.Dedup{RDB: rdb, Service: cfg.RestockGroup},
		ServiceName: cfg.ServiceName + "-restock",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.RestockGroup, events.TopicRestockRequested, cfg.RestockWorkers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Printf("restock consumer started: group=%s topic=%s workers=%d", cfg.RestockGroup, events.TopicRestockRequested, cfg.RestockWorkers)
		if err := cons.Start(ctx, svc.HandleRestockRequested); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	<-done // workers finished, nothing publishes after this
	prod.Close()
	prod.WaitClosed()
}
