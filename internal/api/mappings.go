package api

import (
	"encoding/json"
	"net/http"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/models/dtos"
	"aethex/emissary/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
)

// ListMappings handles GET /api/v1/guilds/{guildID}/mappings
func (h *Handlers) ListMappings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")
		if guildID == "" {
			respondWithError(w, http.StatusBadRequest, "guild id is required")
			return
		}

		mappings, err := h.deps.Services.Mappings.ListByGuild(r.Context(), guildID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to fetch mappings")
			return
		}

		out := make([]responses.MappingResponse, 0, len(mappings))
		for _, m := range mappings {
			out = append(out, responses.MappingResponse{
				GuildID:   m.GuildID,
				Arm:       m.Arm.String(),
				RoleRef:   m.RoleRef,
				UpdatedAt: m.UpdatedAt,
			})
		}

		respondWithSuccess(w, http.StatusOK, &out)
	}
}

// UpsertMapping handles PUT /api/v1/guilds/{guildID}/mappings/{arm}
func (h *Handlers) UpsertMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")

		arm, err := constants.ParseArm(chi.URLParam(r, "arm"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var req dtos.UpsertMappingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.RoleRef == "" {
			respondWithError(w, http.StatusBadRequest, "role_ref is required")
			return
		}

		mapping, err := h.deps.Services.Mappings.Upsert(r.Context(), guildID, arm, req.RoleRef)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to save mapping")
			return
		}

		resp := responses.MappingResponse{
			GuildID:   mapping.GuildID,
			Arm:       mapping.Arm.String(),
			RoleRef:   mapping.RoleRef,
			UpdatedAt: mapping.UpdatedAt,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// DeleteMapping handles DELETE /api/v1/guilds/{guildID}/mappings/{arm}
func (h *Handlers) DeleteMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildID")

		arm, err := constants.ParseArm(chi.URLParam(r, "arm"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := h.deps.Services.Mappings.Delete(r.Context(), guildID, arm); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete mapping")
			return
		}

		respondWithSuccess(w, http.StatusOK, &map[string]string{"deleted": arm.String()})
	}
}
