package store

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Config{StoreDriver: "sqlite", SQLitePath: ":memory:"}
	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
	if err := s.Inventory.Put(ctx, 3, 9); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, err := s.Inventory.Get(ctx, 3)
	if err != nil || rec.Quantity != 9 {
		t.Errorf("got %+v, %v", rec, err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.Config{StoreDriver: "mongo"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
