package main

import (
	"context"
	"flag"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/store"
	"github.com/joho/godotenv"
	"log"
	"strconv"
	"strings"
	"time"
)

func main() {
	seed := flag.String("seed", "", "comma separated product_id=quantity pairs to stock after migrating")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store open (%s): %v", cfg.StoreDriver, err)
	}
	defer stores.Close()

	if err := stores.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("schema applied (store=%s)", cfg.StoreDriver)

	pairs, err := parseSeed(*seed)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	for id, qty := range pairs {
		if err := stores.Inventory.Put(ctx, id, qty); err != nil {
			log.Fatalf("seed product %d: %v", id, err)
		}
		log.Printf("stocked product %d = %d", id, qty)
	}
}

func parseSeed(s string) (map[int64]int, error) {
	out := map[int64]int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, &seedError{part}
		}
		id, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil || id <= 0 {
			return nil, &seedError{part}
		}
		qty, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || qty < 0 {
			return nil, &seedError{part}
		}
		out[id] = qty
	}
	return out, nil
}

type seedError struct{ pair string }

func (e *seedError) Error() string { return "bad seed pair " + strconv.Quote(e.pair) }
