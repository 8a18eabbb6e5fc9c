package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/logging"
	"aethex/emissary/internal/models/entities"
)

const verifyCodeTTL = 15 * time.Minute

// IdentityStore is the persistence surface for passport linkage
type IdentityStore interface {
	Insert(ctx context.Context, identity *entities.LinkedIdentity) error
	FindByDiscordId(ctx context.Context, discordID string) (*entities.LinkedIdentity, error)
	FindByVerifyCode(ctx context.Context, code string) (*entities.LinkedIdentity, error)
	LinkDiscord(ctx context.Context, identityID string, discordID string) error
	SetPrimaryArm(ctx context.Context, discordID string, arm constants.Arm) error
	SetVerifyCode(ctx context.Context, passportID string, code string, expiresAt time.Time) error
	FindAllLinked(ctx context.Context) ([]entities.LinkedIdentity, error)
}

// VerifyStep is one entry of the stepwise status list shown to the user
type VerifyStep struct {
	Step   string `json:"step"`
	Status string `json:"status"`
}

// VerifyResult is the outcome of a verification attempt
type VerifyResult struct {
	Status     bool                     `json:"status"`
	Steps      []VerifyStep             `json:"steps"`
	PrimaryArm constants.Arm            `json:"primary_arm,omitempty"`
	Identity   *entities.LinkedIdentity `json:"-"`
}

// IdentityService owns the passport-to-Discord linking flow
type IdentityService struct {
	store IdentityStore
}

func NewIdentityService(store IdentityStore) *IdentityService {
	return &IdentityService{store: store}
}

// BeginVerification issues a short-lived code for a passport. The platform
// shows the code to the user, who relays it via /verify.
func (s *IdentityService) BeginVerification(ctx context.Context, passportID string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate verify code: %w", err)
	}

	expiresAt := time.Now().Add(verifyCodeTTL)
	if err := s.store.SetVerifyCode(ctx, passportID, code, expiresAt); err != nil {
		return "", fmt.Errorf("%s: %w", constants.StatusVerifyInit, err)
	}

	logging.Info("Verification started", "passport_id", passportID, "expires_at", expiresAt)
	return code, nil
}

// CompleteVerification redeems a code and links the Discord account.
// Returns a stepwise result the bot renders verbatim.
func (s *IdentityService) CompleteVerification(ctx context.Context, discordID, code string) (*VerifyResult, error) {
	result := &VerifyResult{Steps: []VerifyStep{}}

	addStep := func(step, status string) {
		result.Steps = append(result.Steps, VerifyStep{Step: step, Status: status})
	}

	existing, err := s.store.FindByDiscordId(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		addStep("Check Discord account", constants.StatusAlreadyLinked)
		return result, nil
	}
	addStep("Check Discord account", "ok")

	identity, err := s.store.FindByVerifyCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		addStep("Match verification code", constants.StatusCodeInvalid)
		return result, nil
	}
	if identity.CodeExpiresAt == nil || time.Now().After(*identity.CodeExpiresAt) {
		addStep("Match verification code", constants.StatusCodeExpired)
		return result, nil
	}
	addStep("Match verification code", "ok")

	if err := s.store.LinkDiscord(ctx, identity.ID, discordID); err != nil {
		addStep("Link passport", constants.StatusInsertFailed)
		return result, err
	}
	addStep("Link passport", constants.StatusLinked)

	result.Status = true
	result.PrimaryArm = identity.PrimaryArm
	result.Identity = identity

	logging.Info("Passport linked",
		"passport_id", identity.PassportID,
		"discord_id", discordID,
		"primary_arm", identity.PrimaryArm.String(),
	)
	return result, nil
}

// SetPrimaryArm switches the one authoritative arm for a linked account
func (s *IdentityService) SetPrimaryArm(ctx context.Context, discordID string, arm constants.Arm) error {
	return s.store.SetPrimaryArm(ctx, discordID, arm)
}

// GetByDiscordID looks up a linked identity; nil when not linked
func (s *IdentityService) GetByDiscordID(ctx context.Context, discordID string) (*entities.LinkedIdentity, error) {
	return s.store.FindByDiscordId(ctx, discordID)
}

// AllLinked returns every active linked identity, for the drift audit
func (s *IdentityService) AllLinked(ctx context.Context) ([]entities.LinkedIdentity, error) {
	return s.store.FindAllLinked(ctx)
}

func generateCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
