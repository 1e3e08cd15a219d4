package controller

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// NewRouter собирает роутер API и оборачивает его в middleware:
// rate limit на каждый маршрут, затем CORS, защитные заголовки и
// логирование запросов снаружи.
func NewRouter(handlers *Handlers, allowedOrigins []string, logger *zap.Logger) http.Handler {
	router := httprouter.New()
	rateLimiter := NewRateLimiter()

	router.GET("/health", handlers.HandleHealth)

	router.GET("/api/bookings", rateLimiter.Limit(handlers.HandleGetBookings))
	router.POST("/api/bookings", rateLimiter.Limit(handlers.HandleCreateBooking))
	router.PUT("/api/bookings/update", rateLimiter.Limit(handlers.HandleUpdateBooking))
	router.DELETE("/api/bookings/update", rateLimiter.Limit(handlers.HandleDeleteBooking))
	router.GET("/api/config", rateLimiter.Limit(handlers.HandleGetConfig))

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		MaxAge:           86400,
		AllowCredentials: false,
	})

	return requestLogger(logger, securityHeaders(c.Handler(router)))
}
