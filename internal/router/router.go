package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/middleware/metrics"
	"github.com/forumkit/forumkit/internal/setup"
)

// New wires every route of the API. Reads run behind OptionalAuth so
// guests and members share one code path; writes require a token.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.RequestId)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	auth := deps.AuthMiddleware

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// read surface
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth())

			r.Get("/categories", h.ListCategories)
			r.Get("/categories/{category}", h.GetCategory)
			r.Get("/categories/{category}/forums/{forum}", h.GetForum)
			r.Get("/categories/{category}/forums/{forum}/threads/{thread}", h.GetThread)
			r.Get("/posts/{post}", h.ShowPost)
			r.Get("/stats", h.GetStats)
			r.Get("/members/{member}/posts", h.GetMemberPosts)
			r.Get("/members/{member}/threads", h.GetMemberThreads)
		})

		// write surface
		r.Group(func(r chi.Router) {
			r.Use(auth.NeedAuth())

			r.Post("/categories/{category}/forums/{forum}/threads", h.CreateThread)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/posts", h.CreateReply)
			r.Put("/categories/{category}/forums/{forum}/threads/{thread}/posts/{post}", h.EditPost)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/posts/{post}/report", h.ReportPost)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/pin", h.TogglePinThread)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/lock", h.ToggleLockThread)
			r.Post("/posts/{post}/vote", h.VotePost)
			r.Post("/preview", h.PreviewPost)
		})
	})

	// preflight requests must not 404
	r.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
