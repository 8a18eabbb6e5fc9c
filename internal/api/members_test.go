package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newSyncRequest(t *testing.T, body []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/members/discord-123/sync", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("discordID", "discord-123")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSyncMemberRejectsMalformedBody(t *testing.T) {
	h := NewHandlers(&Dependencies{Repo: &Repositories{}, Services: &Services{}})

	req := newSyncRequest(t, []byte(`{"arm": `))
	rr := httptest.NewRecorder()

	h.SyncMember()(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rr.Code)
	}
}

func TestSyncMemberRejectsUnknownArm(t *testing.T) {
	h := NewHandlers(&Dependencies{Repo: &Repositories{}, Services: &Services{}})

	req := newSyncRequest(t, []byte(`{"arm": "moonbase"}`))
	rr := httptest.NewRecorder()

	h.SyncMember()(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown arm, got %d", rr.Code)
	}
}
