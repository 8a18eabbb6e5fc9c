package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type IdentityRepository struct {
	db *sqlx.DB
}

func NewIdentityRepository(db *sqlx.DB) *IdentityRepository {
	return &IdentityRepository{db}
}

func (r *IdentityRepository) Insert(ctx context.Context, identity *entities.LinkedIdentity) error {
	return r.db.QueryRowxContext(ctx, constants.InsertIdentity,
		identity.PassportID,
		identity.PrimaryArm,
		identity.VerifyCode,
		identity.CodeExpiresAt,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
}

func (r *IdentityRepository) FindByDiscordId(ctx context.Context, discordID string) (*entities.LinkedIdentity, error) {

	var identity entities.LinkedIdentity

	err := r.db.QueryRowxContext(ctx, constants.GetIdentityByDiscordId, discordID).StructScan(&identity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch identity: %w", err)
	}

	return &identity, nil
}

func (r *IdentityRepository) FindByVerifyCode(ctx context.Context, code string) (*entities.LinkedIdentity, error) {

	var identity entities.LinkedIdentity

	err := r.db.QueryRowxContext(ctx, constants.GetIdentityByVerifyCode, code).StructScan(&identity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch identity by code: %w", err)
	}

	return &identity, nil
}

// LinkDiscord records the Discord account on the identity and clears the code
func (r *IdentityRepository) LinkDiscord(ctx context.Context, identityID string, discordID string) error {
	if _, err := r.db.ExecContext(ctx, constants.LinkIdentityDiscord, identityID, discordID); err != nil {
		return fmt.Errorf("failed to link discord account: %w", err)
	}
	return nil
}

// SetPrimaryArm updates the one authoritative arm for a linked account
func (r *IdentityRepository) SetPrimaryArm(ctx context.Context, discordID string, arm constants.Arm) error {
	res, err := r.db.ExecContext(ctx, constants.SetIdentityArm, discordID, arm)
	if err != nil {
		return fmt.Errorf("failed to set primary arm: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetVerifyCode stamps a fresh code and expiry for a passport
func (r *IdentityRepository) SetVerifyCode(ctx context.Context, passportID string, code string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, constants.SetIdentityVerifyCode, passportID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set verify code: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindAllLinked returns every active identity with a Discord account attached
func (r *IdentityRepository) FindAllLinked(ctx context.Context) ([]entities.LinkedIdentity, error) {

	var identities []entities.LinkedIdentity

	if err := r.db.SelectContext(ctx, &identities, constants.GetActiveLinkedIdentities); err != nil {
		return nil, fmt.Errorf("failed to fetch linked identities: %w", err)
	}

	return identities, nil
}
