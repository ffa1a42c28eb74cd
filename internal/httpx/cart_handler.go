package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/go-chi/chi/v5"
	"log"
	"net/http"
	"strconv"
)

type CartHandler struct {
	Service *cart.Service
	Auth    *auth.Verifier
}

type AddItemReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type AddItemResp struct {
	Line              cart.Line `json:"line"`
	InsufficientStock bool      `json:"insufficient_stock"`
	Message           string    `json:"message"`
}

type SetQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(RequireUser(h.Auth))
		r.Get("/", h.view)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.setQuantity)
		r.Post("/items/{productID}/increment", h.increment)
		r.Post("/items/{productID}/decrement", h.decrement)
		r.Delete("/items/{productID}", h.remove)
		r.Post("/checkout", h.checkout)
	})
}

func (h *CartHandler) view(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	lines, err := h.Service.View(ctx, userID(r))
	if err != nil {
		cartError(w, err)
		return
	}
	if lines == nil {
		lines = []cart.LineView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	out, err := h.Service.Add(ctx, userID(r), req.ProductID, req.Quantity)
	if err != nil {
		cartError(w, err)
		return
	}
	msg := "Added to cart"
	if out.Clamped {
		msg = fmt.Sprintf("Insufficient stock: quantity set to %d", out.Line.Quantity)
	}
	writeJSON(w, http.StatusOK, AddItemResp{Line: out.Line, InsufficientStock: out.Clamped, Message: msg})
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	var req SetQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	line, err := h.Service.SetQuantity(ctx, userID(r), id, req.Quantity)
	if err != nil {
		cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line": line})
}

func (h *CartHandler) increment(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.Service.Increment)
}

func (h *CartHandler) decrement(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.Service.Decrement)
}

func (h *CartHandler) step(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, int64) (cart.Line, error)) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	line, err := fn(ctx, userID(r), id)
	if err != nil {
		cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line": line})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.Service.Remove(ctx, userID(r), id); err != nil {
		cartError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.Service.Checkout(ctx, userID(r))
	if err != nil {
		cartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func productParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

func cartError(w http.ResponseWriter, err error) {
	var se *cart.ShortfallError
	switch {
	case errors.As(err, &se):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "Insufficient stock", "shortfalls": se.Shortfalls})
	case errors.Is(err, cart.ErrInsufficientStock), errors.Is(err, cart.ErrOutOfStock):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, cart.ErrBelowMinimum), errors.Is(err, cart.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, cart.ErrLineNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Printf("cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update cart", "details": err.Error()})
	}
}
