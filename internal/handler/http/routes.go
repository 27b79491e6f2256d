package http

import (
	"net/http"

	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(h.withMetrics)
	router.Use(withSpanName)
	router.Use(withGZip)
	router.Use(middleware.StripSlashes)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed(router))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/users", h.register)
		r.Post("/api/users/token", h.createToken)
		r.Get("/api/health", h.health)

		if h.metrics != nil {
			r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
		}
		if h.media != nil {
			r.Method(http.MethodGet, "/media/*", h.media)
		}
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/users/me", h.getMe)
		r.Put("/api/users/me", h.updateMe)
		r.Patch("/api/users/me", h.updateMe)

		r.Get("/api/recipes", h.listRecipes)
		r.Post("/api/recipes", h.createRecipe)
		r.Get("/api/recipes/{id}", h.getRecipe)
		r.Put("/api/recipes/{id}", h.updateRecipe(false))
		r.Patch("/api/recipes/{id}", h.updateRecipe(true))
		r.Delete("/api/recipes/{id}", h.deleteRecipe)
		r.Post("/api/recipes/{id}/upload-image", h.uploadImage)

		h.attributeRoutes(r, "/api/tags", models.KindTag)
		h.attributeRoutes(r, "/api/ingredients", models.KindIngredient)
	})

	return router
}

// attributeRoutes registers the tag or ingredient endpoints under prefix.
// Flat patterns keep the Allow header of 405 replies exact.
func (h *Handler) attributeRoutes(r chi.Router, prefix string, kind models.AttributeKind) {
	r.Get(prefix, h.listAttributes(kind))
	r.Get(prefix+"/{id}", h.getAttribute(kind))
	r.Put(prefix+"/{id}", h.updateAttribute(kind, false))
	r.Patch(prefix+"/{id}", h.updateAttribute(kind, true))
	r.Delete(prefix+"/{id}", h.deleteAttribute(kind))
}
