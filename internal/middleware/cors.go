// Package middleware holds the chi middleware mounted in front of the card
// handlers: request logging, body limits and browser origin checks.
package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// preflightMaxAge is how long, in seconds, a browser may reuse a preflight.
const preflightMaxAge = 600

// NewCORSHandler lets the card UI served from origins call the API.
// Origins are compared after trimming spaces and a trailing slash, so
// "http://localhost:5173/" from an env list still matches; blank entries
// are dropped. The route list's X-Total-Count and the request id are
// readable from scripts.
func NewCORSHandler(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cleanOrigins(origins),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Total-Count", "X-Request-Id", "Location"},
		MaxAge:         preflightMaxAge,
	})
	return c.Handler
}

func cleanOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
