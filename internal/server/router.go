package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shouni/go-storyboard-kit/internal/server/handlers"
)

// NewRouter は、ミドルウェアとAPIルーティングを統合した http.Handler を構築します。
func NewRouter(h *handlers.Handler) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, h *handlers.Handler) {
	r.Route("/api", func(r chi.Router) {
		// --- セッション ---
		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/input", h.UpdateInput)
			r.Post("/reset", h.ResetSession)
		})

		// --- 構成案 ---
		r.Post("/bible", h.AnalyzeBible)
		r.Post("/plan", h.GeneratePlan)

		// --- ショット ---
		r.Route("/shots", func(r chi.Router) {
			r.Post("/generate-all", h.GenerateAllImages)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", h.UpdateShot)
				r.Delete("/", h.RemoveShot)
				r.Post("/refine", h.RefineShot)
				r.Post("/image", h.GenerateShotImage)
				r.Post("/edit", h.EditShotImage)
			})
		})

		// --- キャスト ---
		r.Post("/characters/{name}/portrait", h.GeneratePortrait)

		// --- 書き出し ---
		r.Post("/export", h.ExportStoryboard)
	})
}
