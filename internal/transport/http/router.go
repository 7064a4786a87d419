package http

import (
	"net/http"
	"time"

	"github.com/anzzxx/E-lern-backend/internal/metrics"
	"github.com/anzzxx/E-lern-backend/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// WS endpoints: аутентификация по token в query внутри хендлеров
	r.Get("/ws/meetings/{id}", wsServer.HandleMeeting)
	r.Get("/ws/comments/{id}", wsServer.HandleComments)
	r.Get("/ws/notifications", wsServer.HandleNotifications)

	r.Group(func(pr chi.Router) {
		pr.Use(middlewareChi.Timeout(30 * time.Second))
		pr.Get("/rooms/{id}/messages", h.GetHistory)
		pr.Post("/internal/notifications", h.PushNotification)
	})

	r.Handle("/metrics", metrics.Handler())

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
