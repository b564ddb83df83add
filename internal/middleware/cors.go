package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/yukikurage/meeting-action-api/internal/constants"
)

// CORS wraps the whole HTTP handler so preflight requests never reach gin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constants.HeaderRequestID},
		ExposedHeaders:   []string{constants.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
