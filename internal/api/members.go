package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/models/dtos"
	"aethex/emissary/internal/models/dtos/responses"
	"aethex/emissary/internal/reconcile"

	"github.com/go-chi/chi/v5"
)

// SyncMember handles POST /api/v1/members/{discordID}/sync
//
// The arm in the body is optional; when omitted, the member's linked
// primary arm is used. With "defer": true the sync is queued instead of
// executed inline.
func (h *Handlers) SyncMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discordID := chi.URLParam(r, "discordID")
		if discordID == "" {
			respondWithError(w, http.StatusBadRequest, "discord id is required")
			return
		}

		// An empty body is allowed (defaults to the linked primary arm);
		// a malformed one is not
		var req dtos.SyncMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var arm constants.Arm
		if req.Arm != "" {
			parsed, err := constants.ParseArm(req.Arm)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			arm = parsed
		} else {
			identity, err := h.deps.Services.Identity.GetByDiscordID(r.Context(), discordID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to look up identity")
				return
			}
			if identity == nil {
				respondWithError(w, http.StatusNotFound, constants.StatusIdentityNotFound)
				return
			}
			arm = identity.PrimaryArm
		}

		if req.Defer {
			if err := h.deps.Services.Sync.EnqueueRefresh(r.Context(), discordID, arm, constants.SyncTriggerAdmin); err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to enqueue refresh")
				return
			}
			resp := responses.SyncSummary{DiscordID: discordID, Arm: arm.String()}
			respondWithSuccess(w, http.StatusAccepted, &resp)
			return
		}

		results := h.deps.Services.Sync.SyncMember(r.Context(), discordID, arm, constants.SyncTriggerAdmin)
		resp := buildSyncSummary(discordID, arm, results)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetSyncHistory handles GET /api/v1/members/{discordID}/sync-history
func (h *Handlers) GetSyncHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discordID := chi.URLParam(r, "discordID")

		records, err := h.deps.Repo.History.GetByDiscordID(r.Context(), discordID, 50)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to fetch sync history")
			return
		}

		out := make([]responses.SyncHistoryEntry, 0, len(records))
		for _, rec := range records {
			out = append(out, responses.SyncHistoryEntry{
				GuildID:   rec.GuildID,
				Arm:       rec.Arm,
				Outcome:   rec.Outcome,
				Trigger:   rec.Trigger,
				Detail:    rec.Detail,
				CreatedAt: rec.CreatedAt,
			})
		}

		respondWithSuccess(w, http.StatusOK, &out)
	}
}

func buildSyncSummary(discordID string, arm constants.Arm, results []reconcile.GuildResult) responses.SyncSummary {
	synced, attempted := reconcile.Summarize(results)

	guilds := make([]responses.GuildSyncResult, 0, len(results))
	for _, gr := range results {
		guilds = append(guilds, responses.GuildSyncResult{
			GuildID: gr.GuildID,
			Outcome: string(gr.Result.Outcome),
			RoleID:  gr.Result.RoleID,
			Removed: len(gr.Result.Removed),
		})
	}

	return responses.SyncSummary{
		DiscordID: discordID,
		Arm:       arm.String(),
		Synced:    synced,
		Attempted: attempted,
		Guilds:    guilds,
	}
}
