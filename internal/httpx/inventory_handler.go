package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/inventory"
	"github.com/go-chi/chi/v5"
	"log"
	"net/http"
	"strconv"
)

type InventoryHandler struct {
	Service *inventory.Service
	Auth    *auth.Verifier
}

type IncrementReq struct {
	ProductID *int64 `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type IncrementResp struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	PreviousQuantity *int   `json:"previousQuantity,omitempty"`
	NewQuantity      *int   `json:"newQuantity,omitempty"`
}

func (h *InventoryHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser(h.Auth))
		r.Post("/functions/v1/increment-inventory", h.increment)
	})
	r.Get("/inventory/{productID}", h.get)
}

func (h *InventoryHandler) increment(w http.ResponseWriter, r *http.Request) {
	fail := func(msg string) {
		writeJSON(w, http.StatusBadRequest, IncrementResp{Success: false, Message: msg})
	}

	var req IncrementReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail("Invalid request body")
		return
	}
	if req.ProductID == nil {
		fail("productId is required")
		return
	}
	if req.Quantity == nil {
		fail("quantity is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	adj, err := h.Service.Increment(ctx, *req.ProductID, *req.Quantity, inventory.ReasonManual)
	switch {
	case err == nil:
	case errors.Is(err, inventory.ErrInvalidProduct):
		fail("productId must be a positive integer")
		return
	case errors.Is(err, inventory.ErrInvalidDelta):
		fail("quantity must be a non-zero integer")
		return
	case errors.Is(err, inventory.ErrNotFound):
		fail("Failed to fetch inventory: product not found")
		return
	case errors.Is(err, inventory.ErrInsufficientStock):
		fail("Insufficient stock: quantity cannot go below zero")
		return
	default:
		log.Printf("increment product=%d user=%s: %v", *req.ProductID, userID(r), err)
		fail("Failed to update inventory: " + err.Error())
		return
	}

	writeJSON(w, http.StatusOK, IncrementResp{
		Success:          true,
		Message:          fmt.Sprintf("Inventory updated for product %d", adj.ProductID),
		PreviousQuantity: &adj.PreviousQuantity,
		NewQuantity:      &adj.NewQuantity,
	})
}

func (h *InventoryHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	qty, found, err := h.Service.Quantity(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch inventory", "details": err.Error()})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Failed to fetch inventory"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "quantity": qty})
}
