package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"cryptoguides-backend/internal/handlers"
	"cryptoguides-backend/internal/middleware"
	"cryptoguides-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	draftHandler *handlers.DraftHandler,
	editorHandler *handlers.EditorHandler,
	imageHandler *handlers.ImageHandler,
	searchHandler *handlers.SearchHandler,
	videoHandler *handlers.VideoHandler,
	jobHandler *handlers.JobHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Upload rate limiter (30 req/min per IP)
	uploadLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Search (public, read-only) ────
		r.Get("/search", searchHandler.Search)

		// ──── Draft & Editor Routes ────
		r.Route("/drafts", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole("editor", "admin"))

			r.Post("/", draftHandler.Create)
			r.Get("/", draftHandler.List)
			r.Post("/import", draftHandler.Import)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", draftHandler.Get)
				r.Delete("/", draftHandler.Delete)

				r.Put("/metadata", editorHandler.SetField)
				r.Put("/related", editorHandler.SetRelatedGuides)

				r.Route("/sections", func(r chi.Router) {
					r.Post("/", editorHandler.AddSection)
					r.Post("/move", editorHandler.MoveSection)
					r.Put("/{index}", editorHandler.UpdateSection)
					r.Delete("/{index}", editorHandler.RemoveSection)
					r.Post("/{index}/toggle-content", editorHandler.ToggleContentVisibility)
				})

				r.Route("/elements/{kind}", func(r chi.Router) {
					r.Post("/attach", editorHandler.AttachElement)
					r.Post("/detach", editorHandler.DetachElement)
					r.Delete("/", editorHandler.PurgeElement)
					r.Patch("/", editorHandler.UpdateElement)
				})

				r.Get("/preview", editorHandler.Preview)
				r.Post("/publish", editorHandler.Publish)
			})
		})

		// ──── Image Routes ────
		r.Route("/images", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole("editor", "admin"))
			r.With(uploadLimiter.Middleware).Post("/upload", imageHandler.Upload)
			r.Get("/progress", imageHandler.Progress)
		})

		// ──── Video Validation ────
		r.Route("/videos", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/validate", videoHandler.Validate)
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", jobHandler.GetJob)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
