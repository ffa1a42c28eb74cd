package httpx

import (
	"github.com/ariefcatur/go-storefront/internal/auth"
	"net/http"
)

// RequireUser rejects requests without a valid bearer token and stores the user id in the context.
func RequireUser(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := v.UserID(r.Header.Get("Authorization"))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "details": err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func userID(r *http.Request) string {
	id, _ := auth.UserIDFrom(r.Context())
	return id
}
