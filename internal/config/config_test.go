package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORE_DRIVER", "KAFKA_BROKERS", "RESTOCK_WORKERS", "STOCK_CACHE_TTL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.HTTPAddr != ":8081" {
		t.Errorf("expected :8081, got %s", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.StoreDriver)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "kafka:9092" {
		t.Errorf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.RestockWorkers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.RestockWorkers)
	}
	if cfg.StockCacheTTL != 30*time.Second {
		t.Errorf("expected 30s ttl, got %v", cfg.StockCacheTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("RESTOCK_WORKERS", "not-a-number")
	t.Setenv("STOCK_CACHE_TTL", "5s")
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.RestockWorkers != 4 {
		t.Errorf("invalid worker count should fall back to 4, got %d", cfg.RestockWorkers)
	}
	if cfg.StockCacheTTL != 5*time.Second {
		t.Errorf("expected 5s ttl, got %v", cfg.StockCacheTTL)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.StoreDriver)
	}
}

func TestCheckSecrets(t *testing.T) {
	cases := []struct {
		name    string
		driver  string
		secret  string
		wantErr bool
	}{
		{"postgres without secret", "postgres", "", true},
		{"postgres with secret", "postgres", "s3cr3t", false},
		{"sqlite without secret", "sqlite", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", tc.driver)
			t.Setenv("JWT_SECRET", tc.secret)

			err := Load().CheckSecrets()
			if tc.wantErr != errors.Is(err, ErrDevSecret) {
				t.Errorf("CheckSecrets() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
