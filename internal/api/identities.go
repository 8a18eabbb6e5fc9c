package api

import (
	"encoding/json"
	"net/http"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/models/dtos"
	"aethex/emissary/internal/models/dtos/responses"
	"aethex/emissary/internal/models/entities"

	"github.com/go-chi/chi/v5"
)

// CreateIdentity handles POST /api/v1/identities
//
// The platform registers a passport here ahead of verification; the user
// then redeems the returned code via /verify in Discord.
func (h *Handlers) CreateIdentity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateIdentityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PassportID == "" {
			respondWithError(w, http.StatusBadRequest, "passport_id is required")
			return
		}

		arm, err := constants.ParseArm(req.PrimaryArm)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		identity := &entities.LinkedIdentity{
			PassportID: req.PassportID,
			PrimaryArm: arm,
		}
		if err := h.deps.Repo.Identity.Insert(r.Context(), identity); err != nil {
			respondWithError(w, http.StatusInternalServerError, constants.StatusInsertFailed)
			return
		}

		code, err := h.deps.Services.Identity.BeginVerification(r.Context(), req.PassportID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, constants.StatusVerifyInit)
			return
		}

		resp := responses.VerifyCodeResponse{Code: code, ExpiresIn: 900}
		respondWithSuccess(w, http.StatusCreated, &resp)
	}
}

// GetIdentity handles GET /api/v1/identities/{discordID}
func (h *Handlers) GetIdentity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discordID := chi.URLParam(r, "discordID")

		identity, err := h.deps.Services.Identity.GetByDiscordID(r.Context(), discordID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to look up identity")
			return
		}
		if identity == nil {
			respondWithError(w, http.StatusNotFound, constants.StatusIdentityNotFound)
			return
		}

		resp := responses.IdentityResponse{
			PassportID: identity.PassportID,
			PrimaryArm: identity.PrimaryArm.String(),
			Linked:     identity.Linked(),
		}
		if identity.DiscordID != nil {
			resp.DiscordID = *identity.DiscordID
		}

		respondWithSuccess(w, http.StatusOK, &resp)
	}
}
