package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/profile"
	"github.com/go-chi/chi/v5"
	"log"
	"net/http"
)

type ProfileHandler struct {
	Service *profile.Service
	Auth    *auth.Verifier
}

type ProfileResp struct {
	Message string          `json:"message"`
	Profile profile.Profile `json:"profile"`
}

func (h *ProfileHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser(h.Auth))
		r.Get("/functions/v1/profile", h.get)
		r.Post("/functions/v1/profile", h.save)
	})
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, created, err := h.Service.Fetch(ctx, userID(r))
	if err != nil {
		profileError(w, err)
		return
	}
	msg := "Profile retrieved"
	if created {
		msg = "Profile created"
	}
	writeJSON(w, http.StatusOK, ProfileResp{Message: msg, Profile: p})
}

func (h *ProfileHandler) save(w http.ResponseWriter, r *http.Request) {
	var in profile.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.Service.Save(ctx, userID(r), in)
	if err != nil {
		profileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResp{Message: "Profile updated", Profile: p})
}

func profileError(w http.ResponseWriter, err error) {
	var ve *profile.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message})
		return
	}

	msg := "Failed to fetch profile"
	var se *profile.StorageError
	if errors.As(err, &se) {
		switch se.Op {
		case profile.OpCreate:
			msg = "Failed to create profile"
		case profile.OpUpdate:
			msg = "Failed to update profile"
		}
		err = se.Err
	}
	log.Printf("profile: %s: %v", msg, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg, "details": err.Error()})
}
