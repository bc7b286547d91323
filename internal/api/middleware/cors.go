package middleware

import (
	"net/http"
	"strings"

	gorillaHandlers "github.com/gorilla/handlers"
)

// CORS разрешает кросс-доменные запросы с перечисленных origin. "*" разрешает любой.
// Оборачивает весь роутер: preflight OPTIONS не совпадает ни с одним маршрутом mux.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(origins),
		gorillaHandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions,
		}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", UserIDHeader}),
		gorillaHandlers.OptionStatusCode(http.StatusNoContent),
	)
}
