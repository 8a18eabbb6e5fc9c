package services

import (
	"context"
	"testing"

	"aethex/emissary/internal/common"
	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/discord"
	"aethex/emissary/internal/models/entities"
	gormModels "aethex/emissary/internal/models/gorm"
	"aethex/emissary/internal/reconcile"
)

// Single-guild membership fake
type oneGuildProvider struct {
	guildID string
	roles   []discord.Role
	held    map[string][]string
}

func (p *oneGuildProvider) GuildIDs() []string { return []string{p.guildID} }

func (p *oneGuildProvider) Member(ctx context.Context, guildID, memberID string) (*discord.Member, error) {
	held, ok := p.held[memberID]
	if !ok {
		return nil, nil
	}
	return &discord.Member{ID: memberID, RoleIDs: append([]string(nil), held...)}, nil
}

func (p *oneGuildProvider) GuildRoles(ctx context.Context, guildID string) ([]discord.Role, error) {
	return p.roles, nil
}

func (p *oneGuildProvider) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	p.held[memberID] = append(p.held[memberID], roleID)
	return nil
}

func (p *oneGuildProvider) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	held := p.held[memberID]
	next := held[:0]
	for _, id := range held {
		if id != roleID {
			next = append(next, id)
		}
	}
	p.held[memberID] = next
	return nil
}

type captureHistory struct {
	records []*gormModels.SyncRecord
}

func (h *captureHistory) Record(ctx context.Context, rec *gormModels.SyncRecord) error {
	h.records = append(h.records, rec)
	return nil
}

func newSyncFixture(history SyncHistory) (*SyncService, *oneGuildProvider) {
	provider := &oneGuildProvider{
		guildID: "g1",
		roles:   []discord.Role{{ID: "r-labs", Name: "Labs"}},
		held:    map[string][]string{"m1": {}},
	}

	store := newFakeMappingStore()
	store.rows["g1"] = []entities.RoleMapping{
		{GuildID: "g1", Arm: constants.ArmLabs, RoleRef: "Labs"},
	}
	mappings := NewRoleMappingService(store, common.NewCacheService(60, 600))

	reconciler := reconcile.New(provider, mappings)
	orchestrator := reconcile.NewOrchestrator(reconciler)

	return NewSyncService(orchestrator, reconciler, history, nil, nil), provider
}

func TestSyncMemberInGuild_RecordsOutcome(t *testing.T) {
	history := &captureHistory{}
	svc, provider := newSyncFixture(history)

	result := svc.SyncMemberInGuild(context.Background(), "g1", "m1", constants.ArmLabs, constants.SyncTriggerVerify)

	if result.Outcome != reconcile.OutcomeAssigned {
		t.Fatalf("Expected ASSIGNED, got %s", result.Outcome)
	}
	if len(provider.held["m1"]) != 1 || provider.held["m1"][0] != "r-labs" {
		t.Errorf("Expected member to hold r-labs, got %v", provider.held["m1"])
	}

	if len(history.records) != 1 {
		t.Fatalf("Expected one audit record, got %d", len(history.records))
	}
	rec := history.records[0]
	if rec.Outcome != string(reconcile.OutcomeAssigned) || rec.Trigger != constants.SyncTriggerVerify {
		t.Errorf("Unexpected audit record %+v", rec)
	}
}

func TestSyncMember_AuditsEveryGuildResult(t *testing.T) {
	history := &captureHistory{}
	svc, _ := newSyncFixture(history)

	results := svc.SyncMember(context.Background(), "m1", constants.ArmLabs, constants.SyncTriggerRefresh)

	if len(results) != 1 {
		t.Fatalf("Expected one guild result, got %d", len(results))
	}
	if len(history.records) != 1 {
		t.Fatalf("Expected one audit record, got %d", len(history.records))
	}
	if history.records[0].GuildID != "g1" {
		t.Errorf("Unexpected guild in audit record: %s", history.records[0].GuildID)
	}
}
