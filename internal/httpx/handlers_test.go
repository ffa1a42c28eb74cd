package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/inventory"
	"github.com/ariefcatur/go-storefront/internal/profile"
	"github.com/ariefcatur/go-storefront/internal/sqlite"
)

type testServer struct {
	*httptest.Server
	inv    *sqlite.InventoryRepo
	verify *auth.Verifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	invRepo := &sqlite.InventoryRepo{DB: db}
	invSvc := &inventory.Service{Store: invRepo, ServiceName: "test"}
	verifier := auth.NewVerifier("test-secret")

	r := NewRouter([]string{"*"})
	(&InventoryHandler{Service: invSvc, Auth: verifier}).Register(r)
	(&ProfileHandler{Service: &profile.Service{Store: &sqlite.ProfileRepo{DB: db}}, Auth: verifier}).Register(r)
	(&CartHandler{Service: &cart.Service{Store: &sqlite.CartRepo{DB: db}, Stock: invSvc}, Auth: verifier}).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, inv: invRepo, verify: verifier}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := s.verify.Sign(userID, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, s.URL+path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestIncrementInventory_Restock(t *testing.T) {
	s := newTestServer(t)
	s.inv.Put(context.Background(), 42, 5)

	resp, body := s.do(t, http.MethodPost, "/functions/v1/increment-inventory", s.token(t, "ops"), map[string]any{"productId": 42, "quantity": 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	if body["success"] != true || body["previousQuantity"] != float64(5) || body["newQuantity"] != float64(8) {
		t.Errorf("unexpected body %v", body)
	}

	_, snap := s.do(t, http.MethodGet, "/inventory/42", "", nil)
	if snap["quantity"] != float64(8) {
		t.Errorf("stored quantity %v, want 8", snap["quantity"])
	}
}

func TestIncrementInventory_Failures(t *testing.T) {
	s := newTestServer(t)
	s.inv.Put(context.Background(), 1, 2)
	tok := s.token(t, "ops")

	cases := []struct {
		name string
		body any
		msg  string
	}{
		{"missing product", map[string]any{"quantity": 1}, "productId is required"},
		{"missing quantity", map[string]any{"productId": 1}, "quantity is required"},
		{"zero quantity", map[string]any{"productId": 1, "quantity": 0}, "quantity must be a non-zero integer"},
		{"unknown product", map[string]any{"productId": 99, "quantity": 1}, "Failed to fetch inventory: product not found"},
		{"below zero", map[string]any{"productId": 1, "quantity": -3}, "Insufficient stock: quantity cannot go below zero"},
		{"bad json", "nope", "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/functions/v1/increment-inventory", tok, tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", resp.StatusCode)
			}
			if body["success"] != false || body["message"] != tc.msg {
				t.Errorf("unexpected body %v", body)
			}
		})
	}
}

func TestIncrementInventory_Preflight(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, s.URL+"/functions/v1/increment-inventory", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// browsers send the header list lowercased, sorted and without spaces
	req.Header.Set("Access-Control-Request-Headers", "apikey,authorization,content-type,x-client-info")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		t.Fatalf("preflight status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin %q, want *", got)
	}
	if resp.Header.Get("Access-Control-Allow-Headers") == "" {
		t.Error("allowed headers not echoed")
	}

	req, _ = http.NewRequest(http.MethodOptions, s.URL+"/functions/v1/increment-inventory", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,x-debug-mode")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted header allowed: origin %q", got)
	}
}

func TestIncrementInventory_RequiresAuth(t *testing.T) {
	s := newTestServer(t)
	s.inv.Put(context.Background(), 9, 50)

	for _, tok := range []string{"", "garbage"} {
		resp, body := s.do(t, http.MethodPost, "/functions/v1/increment-inventory", tok, map[string]any{"productId": 9, "quantity": -50})
		if resp.StatusCode != http.StatusUnauthorized || body["error"] == nil {
			t.Errorf("token %q: status %d body %v", tok, resp.StatusCode, body)
		}
	}

	_, snap := s.do(t, http.MethodGet, "/inventory/9", "", nil)
	if snap["quantity"] != float64(50) {
		t.Errorf("stock changed by unauthenticated call: %v", snap["quantity"])
	}
}

func TestProfile_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodGet, "/functions/v1/profile", "", nil)
	if resp.StatusCode != http.StatusUnauthorized || body["error"] == nil {
		t.Errorf("status %d body %v", resp.StatusCode, body)
	}
	resp, _ = s.do(t, http.MethodGet, "/functions/v1/profile", "garbage", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token status %d", resp.StatusCode)
	}
}

func TestProfile_CreationScenario(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "user-1")

	resp, body := s.do(t, http.MethodGet, "/functions/v1/profile", tok, nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Profile created" {
		t.Fatalf("first GET: %d %v", resp.StatusCode, body)
	}
	p := body["profile"].(map[string]any)
	for _, f := range []string{"first_name", "last_name", "location", "phone_number"} {
		if p[f] != "" {
			t.Errorf("%s = %v, want empty", f, p[f])
		}
	}

	in := map[string]any{"first_name": "Ada", "last_name": "Lovelace", "location": "London", "phone_number": "555"}
	resp, body = s.do(t, http.MethodPost, "/functions/v1/profile", tok, in)
	if resp.StatusCode != http.StatusOK || body["message"] != "Profile updated" {
		t.Fatalf("POST: %d %v", resp.StatusCode, body)
	}

	resp, body = s.do(t, http.MethodGet, "/functions/v1/profile", tok, nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Profile retrieved" {
		t.Fatalf("second GET: %d %v", resp.StatusCode, body)
	}
	p = body["profile"].(map[string]any)
	for k, v := range in {
		if p[k] != v {
			t.Errorf("%s = %v, want %v", k, p[k], v)
		}
	}
}

func TestProfile_ValidationError(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "user-2")

	resp, body := s.do(t, http.MethodPost, "/functions/v1/profile", tok,
		map[string]any{"first_name": "Ada", "last_name": " ", "location": "", "phone_number": "555"})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Last name is required" {
		t.Errorf("status %d body %v", resp.StatusCode, body)
	}

	// nothing was written
	_, body = s.do(t, http.MethodGet, "/functions/v1/profile", tok, nil)
	if body["message"] != "Profile created" {
		t.Errorf("expected profile to be created lazily afterwards, got %v", body)
	}
}

func TestCart_AddClampsAndCheckout(t *testing.T) {
	s := newTestServer(t)
	s.inv.Put(context.Background(), 7, 2)
	tok := s.token(t, "U")

	resp, body := s.do(t, http.MethodPost, "/cart/items", tok, map[string]any{"productId": 7, "quantity": 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: %d %v", resp.StatusCode, body)
	}
	line := body["line"].(map[string]any)
	if line["quantity"] != float64(2) || body["insufficient_stock"] != true {
		t.Errorf("unexpected add result %v", body)
	}

	resp, _ = s.do(t, http.MethodPost, "/cart/items/7/increment", tok, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("increment past stock: status %d, want 409", resp.StatusCode)
	}

	resp, body = s.do(t, http.MethodPost, "/cart/checkout", tok, nil)
	if resp.StatusCode != http.StatusOK || body["checkout_id"] == "" {
		t.Fatalf("checkout: %d %v", resp.StatusCode, body)
	}

	_, snap := s.do(t, http.MethodGet, "/inventory/7", "", nil)
	if snap["quantity"] != float64(0) {
		t.Errorf("stock after checkout %v, want 0", snap["quantity"])
	}
	_, view := s.do(t, http.MethodGet, "/cart", tok, nil)
	if lines := view["lines"].([]any); len(lines) != 0 {
		t.Errorf("cart not emptied: %v", lines)
	}
}

func TestCart_CheckoutShortfall(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.inv.Put(ctx, 1, 3)
	tok := s.token(t, "U")

	s.do(t, http.MethodPost, "/cart/items", tok, map[string]any{"productId": 1, "quantity": 3})
	s.inv.Put(ctx, 1, 1)

	_, view := s.do(t, http.MethodGet, "/cart", tok, nil)
	first := view["lines"].([]any)[0].(map[string]any)
	if first["stale"] != true || first["quantity"] != float64(3) {
		t.Errorf("expected stale untruncated line, got %v", first)
	}

	resp, body := s.do(t, http.MethodPost, "/cart/checkout", tok, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want 409", resp.StatusCode)
	}
	short := body["shortfalls"].([]any)[0].(map[string]any)
	if short["required"] != float64(3) || short["available"] != float64(1) {
		t.Errorf("unexpected shortfall %v", short)
	}
}

func TestCart_LineErrors(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "U")

	if resp, _ := s.do(t, http.MethodGet, "/cart", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated: status %d", resp.StatusCode)
	}
	if resp, _ := s.do(t, http.MethodDelete, "/cart/items/5", tok, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("remove missing: status %d", resp.StatusCode)
	}
	if resp, _ := s.do(t, http.MethodPut, "/cart/items/abc", tok, map[string]any{"quantity": 1}); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id: status %d", resp.StatusCode)
	}
	if resp, _ := s.do(t, http.MethodPost, "/cart/items", tok, map[string]any{"productId": 5, "quantity": 1}); resp.StatusCode != http.StatusConflict {
		t.Errorf("no inventory: status %d", resp.StatusCode)
	}
	if resp, _ := s.do(t, http.MethodPost, "/cart/checkout", tok, nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty checkout: status %d", resp.StatusCode)
	}
}
