package services

import (
	"context"
	"errors"
	"testing"

	"aethex/emissary/internal/common"
	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/db/repositories"
	"aethex/emissary/internal/models/entities"
)

// Fake mapping store tracking query counts
type fakeMappingStore struct {
	rows      map[string][]entities.RoleMapping
	listCalls int
}

func newFakeMappingStore() *fakeMappingStore {
	return &fakeMappingStore{rows: map[string][]entities.RoleMapping{}}
}

func (f *fakeMappingStore) FindAllByGuild(ctx context.Context, guildID string) ([]entities.RoleMapping, error) {
	f.listCalls++
	return f.rows[guildID], nil
}

func (f *fakeMappingStore) Upsert(ctx context.Context, mapping *entities.RoleMapping) error {
	existing := f.rows[mapping.GuildID]
	for i := range existing {
		if existing[i].Arm == mapping.Arm {
			existing[i].RoleRef = mapping.RoleRef
			return nil
		}
	}
	f.rows[mapping.GuildID] = append(existing, *mapping)
	return nil
}

func (f *fakeMappingStore) Delete(ctx context.Context, guildID string, arm constants.Arm) error {
	existing := f.rows[guildID]
	next := existing[:0]
	for _, m := range existing {
		if m.Arm != arm {
			next = append(next, m)
		}
	}
	f.rows[guildID] = next
	return nil
}

func newTestMappingService(store MappingStore) *RoleMappingService {
	return NewRoleMappingService(store, common.NewCacheService(60, 600))
}

func TestRoleMappingService_LookupCachesPerGuild(t *testing.T) {
	store := newFakeMappingStore()
	store.rows["g1"] = []entities.RoleMapping{
		{GuildID: "g1", Arm: constants.ArmLabs, RoleRef: "Labs"},
		{GuildID: "g1", Arm: constants.ArmCorp, RoleRef: "Corp"},
	}

	svc := newTestMappingService(store)
	ctx := context.Background()

	m, err := svc.Lookup(ctx, "g1", constants.ArmLabs)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if m == nil || m.RoleRef != "Labs" {
		t.Fatalf("Expected Labs mapping, got %+v", m)
	}

	// Both subsequent reads should come from cache
	if _, err := svc.Lookup(ctx, "g1", constants.ArmCorp); err != nil {
		t.Fatalf("Second lookup failed: %v", err)
	}
	if _, err := svc.FamilyRefs(ctx, "g1"); err != nil {
		t.Fatalf("FamilyRefs failed: %v", err)
	}

	if store.listCalls != 1 {
		t.Errorf("Expected one store read, got %d", store.listCalls)
	}
}

func TestRoleMappingService_LookupAbsentIsNil(t *testing.T) {
	svc := newTestMappingService(newFakeMappingStore())

	m, err := svc.Lookup(context.Background(), "g1", constants.ArmNexus)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if m != nil {
		t.Errorf("Expected nil for unconfigured mapping, got %+v", m)
	}
}

func TestRoleMappingService_UpsertEvictsCache(t *testing.T) {
	store := newFakeMappingStore()
	svc := newTestMappingService(store)
	ctx := context.Background()

	if _, err := svc.Lookup(ctx, "g1", constants.ArmLabs); err != nil {
		t.Fatalf("Warm-up lookup failed: %v", err)
	}

	if _, err := svc.Upsert(ctx, "g1", constants.ArmLabs, "Labs"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	m, err := svc.Lookup(ctx, "g1", constants.ArmLabs)
	if err != nil {
		t.Fatalf("Lookup after upsert failed: %v", err)
	}
	if m == nil || m.RoleRef != "Labs" {
		t.Errorf("Expected fresh mapping after eviction, got %+v", m)
	}
}

func TestRoleMappingService_UpsertRejectsEmptyRef(t *testing.T) {
	svc := newTestMappingService(newFakeMappingStore())

	if _, err := svc.Upsert(context.Background(), "g1", constants.ArmLabs, ""); err == nil {
		t.Error("Expected error for empty role reference")
	}
}

func TestRoleMappingService_DuplicateRowsAreAnError(t *testing.T) {
	store := newFakeMappingStore()
	// Simulate a store whose unique index was migrated around
	store.rows["g1"] = []entities.RoleMapping{
		{GuildID: "g1", Arm: constants.ArmLabs, RoleRef: "Labs"},
		{GuildID: "g1", Arm: constants.ArmLabs, RoleRef: "Labs Legacy"},
	}

	svc := newTestMappingService(store)

	_, err := svc.Lookup(context.Background(), "g1", constants.ArmLabs)
	if err == nil {
		t.Fatal("Expected duplicate mapping rows to surface as an error")
	}
	if !errors.Is(err, repositories.ErrAmbiguousMapping) {
		t.Errorf("Expected ErrAmbiguousMapping, got %v", err)
	}
}
