package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/utils"
)

// ApiKey guards a route subtree with a static X-API-KEY header check. An
// empty configured key disables the check, for local development only.
func ApiKey(key string) func(http.Handler) http.Handler {
	if key == "" {
		log.Warn().Msg("BACKEND_API_KEY is empty, API key authentication disabled")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-KEY")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				utils.WriteError(w, http.StatusUnauthorized, "invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
