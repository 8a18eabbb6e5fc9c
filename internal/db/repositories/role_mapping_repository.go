package repositories

import (
	"context"
	"errors"
	"fmt"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ErrAmbiguousMapping is returned when more than one mapping row exists for
// one (guild, arm) pair. The schema carries a unique index, so hitting this
// means the store was migrated around it; we refuse to guess a winner.
var ErrAmbiguousMapping = errors.New("multiple role mappings configured for guild/arm")

type RoleMappingRepository struct {
	db *sqlx.DB
}

func NewRoleMappingRepository(db *sqlx.DB) *RoleMappingRepository {
	return &RoleMappingRepository{db}
}

// FindAllByGuild returns every mapping configured for a guild
func (r *RoleMappingRepository) FindAllByGuild(ctx context.Context, guildID string) ([]entities.RoleMapping, error) {

	var mappings []entities.RoleMapping

	if err := r.db.SelectContext(ctx, &mappings, constants.GetRoleMappingsForGuild, guildID); err != nil {
		return nil, fmt.Errorf("failed to fetch guild role mappings: %w", err)
	}

	return mappings, nil
}

// Upsert inserts or replaces the mapping for (guild, arm)
func (r *RoleMappingRepository) Upsert(ctx context.Context, mapping *entities.RoleMapping) error {

	err := r.db.QueryRowxContext(ctx, constants.UpsertRoleMapping,
		mapping.GuildID,
		mapping.Arm,
		mapping.RoleRef,
	).Scan(&mapping.ID, &mapping.CreatedAt, &mapping.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert role mapping: %w", err)
	}
	return nil
}

// Delete removes the mapping for (guild, arm); deleting a missing row is a no-op
func (r *RoleMappingRepository) Delete(ctx context.Context, guildID string, arm constants.Arm) error {

	if _, err := r.db.ExecContext(ctx, constants.DeleteRoleMapping, guildID, arm); err != nil {
		return fmt.Errorf("failed to delete role mapping: %w", err)
	}
	return nil
}
