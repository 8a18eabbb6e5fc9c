package routes

import (
	"aethex/emissary/internal/api"
	"aethex/emissary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes mounts the authenticated /api/v1 surface.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, h *api.Handlers) {
	r.Route("/api/v1", func(apiRouter chi.Router) {
		apiRouter.Use(middleware.AuthMiddleware(deps.Repo.Keys))

		apiRouter.Route("/guilds/{guildID}", func(g chi.Router) {
			g.Get("/mappings", h.ListMappings())
			g.Put("/mappings/{arm}", h.UpsertMapping())
			g.Delete("/mappings/{arm}", h.DeleteMapping())
		})

		apiRouter.Route("/members/{discordID}", func(m chi.Router) {
			m.Post("/sync", h.SyncMember())
			m.Get("/sync-history", h.GetSyncHistory())
		})

		apiRouter.Post("/identities", h.CreateIdentity())
		apiRouter.Get("/identities/{discordID}", h.GetIdentity())
	})
}
