package services

import (
	"context"
	"fmt"
	"time"

	"aethex/emissary/internal/common"
	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/db/repositories"
	"aethex/emissary/internal/models/entities"
)

const mappingCacheTTL = 5 * time.Minute

// MappingStore is the persistence surface for role mappings
type MappingStore interface {
	FindAllByGuild(ctx context.Context, guildID string) ([]entities.RoleMapping, error)
	Upsert(ctx context.Context, mapping *entities.RoleMapping) error
	Delete(ctx context.Context, guildID string, arm constants.Arm) error
}

// RoleMappingService fronts the mapping store with a per-guild cache. It
// implements reconcile.MappingLookup.
type RoleMappingService struct {
	store MappingStore
	cache common.CacheInterface
}

func NewRoleMappingService(store MappingStore, cache common.CacheInterface) *RoleMappingService {
	return &RoleMappingService{store: store, cache: cache}
}

func mappingCacheKey(guildID string) string {
	return constants.CachePrefixRoleMappings + guildID
}

// guildMappings returns all mapping rows for a guild, cached
func (s *RoleMappingService) guildMappings(ctx context.Context, guildID string) ([]entities.RoleMapping, error) {
	val, err := s.cache.GetOrSet(mappingCacheKey(guildID), mappingCacheTTL, func() (any, error) {
		return s.store.FindAllByGuild(ctx, guildID)
	})
	if err != nil {
		return nil, err
	}

	mappings, ok := val.([]entities.RoleMapping)
	if !ok {
		// Redis round-trips lose the concrete type; fall through to the store
		return s.store.FindAllByGuild(ctx, guildID)
	}
	return mappings, nil
}

// Lookup returns the mapping for (guild, arm), nil when none is configured.
// Duplicate rows surface as an error, never silent first-match.
func (s *RoleMappingService) Lookup(ctx context.Context, guildID string, arm constants.Arm) (*entities.RoleMapping, error) {
	mappings, err := s.guildMappings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var found *entities.RoleMapping
	for i := range mappings {
		if mappings[i].Arm != arm {
			continue
		}
		if found != nil {
			return nil, repositories.ErrAmbiguousMapping
		}
		found = &mappings[i]
	}
	return found, nil
}

// FamilyRefs returns every mapped role reference for the guild. The mapping
// rows tag the arm-role family; the reconciler sweeps against this set.
func (s *RoleMappingService) FamilyRefs(ctx context.Context, guildID string) ([]string, error) {
	mappings, err := s.guildMappings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(mappings))
	for _, m := range mappings {
		refs = append(refs, m.RoleRef)
	}
	return refs, nil
}

// ListByGuild exposes the raw mapping rows for the admin API
func (s *RoleMappingService) ListByGuild(ctx context.Context, guildID string) ([]entities.RoleMapping, error) {
	return s.guildMappings(ctx, guildID)
}

// Upsert writes a mapping and evicts the guild's cache entry
func (s *RoleMappingService) Upsert(ctx context.Context, guildID string, arm constants.Arm, roleRef string) (*entities.RoleMapping, error) {
	if roleRef == "" {
		return nil, fmt.Errorf("role reference must not be empty")
	}

	mapping := &entities.RoleMapping{GuildID: guildID, Arm: arm, RoleRef: roleRef}
	if err := s.store.Upsert(ctx, mapping); err != nil {
		return nil, err
	}

	s.cache.Delete(mappingCacheKey(guildID))
	return mapping, nil
}

// Delete removes a mapping and evicts the guild's cache entry
func (s *RoleMappingService) Delete(ctx context.Context, guildID string, arm constants.Arm) error {
	if err := s.store.Delete(ctx, guildID, arm); err != nil {
		return err
	}

	s.cache.Delete(mappingCacheKey(guildID))
	return nil
}
