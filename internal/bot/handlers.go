package bot

import (
	"context"
	"fmt"
	"strings"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/logging"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleVerify(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	userID := interactionUserID(i)
	if userID == "" {
		respond(s, i, constants.MsgSyncRetryLater)
		return
	}

	code := strings.TrimSpace(data.Options[0].StringValue())

	result, err := b.identitySvc.CompleteVerification(ctx, userID, code)
	if err != nil {
		logging.Error("Verification failed", "discord_id", userID, "error", err.Error())
		respond(s, i, constants.MsgSyncRetryLater)
		return
	}

	if !result.Status {
		// Render the step that stopped the flow
		last := result.Steps[len(result.Steps)-1]
		respond(s, i, fmt.Sprintf("Verification failed: %s.", last.Status))
		return
	}

	results := b.syncSvc.SyncMember(ctx, userID, result.PrimaryArm, constants.SyncTriggerVerify)
	respond(s, i, fmt.Sprintf("Welcome to AeThex! Your primary realm is **%s**.\n%s",
		result.PrimaryArm.String(), summaryLine(results)))
}

func (b *Bot) handleSetRealm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	userID := interactionUserID(i)
	if userID == "" {
		respond(s, i, constants.MsgSyncRetryLater)
		return
	}

	arm, err := constants.ParseArm(data.Options[0].StringValue())
	if err != nil {
		respond(s, i, constants.MsgUnknownArm)
		return
	}

	identity, err := b.identitySvc.GetByDiscordID(ctx, userID)
	if err != nil {
		logging.Error("Identity lookup failed", "discord_id", userID, "error", err.Error())
		respond(s, i, constants.MsgSyncRetryLater)
		return
	}
	if identity == nil {
		respond(s, i, constants.MsgNotLinked)
		return
	}

	if err := b.identitySvc.SetPrimaryArm(ctx, userID, arm); err != nil {
		logging.Error("Failed to set primary arm", "discord_id", userID, "error", err.Error())
		respond(s, i, constants.MsgSyncRetryLater)
		return
	}

	results := b.syncSvc.SyncMember(ctx, userID, arm, constants.SyncTriggerSetArm)
	respond(s, i, fmt.Sprintf("Your primary realm is now **%s**.\n%s", arm.String(), summaryLine(results)))
}

func (b *Bot) handleRefreshRoles(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	if userID == "" {
		respond(s, i, constants.MsgSyncRetryLater)
		return
	}

	identity, err := b.identitySvc.GetByDiscordID(ctx, userID)
	if err != nil {
		logging.Error("Identity lookup failed", "discord_id", userID, "error", err.Error())
		respond(s, i, constants.MsgSyncRetryLater)
		return
	}
	if identity == nil {
		respond(s, i, constants.MsgNotLinked)
		return
	}

	results := b.syncSvc.SyncMember(ctx, userID, identity.PrimaryArm, constants.SyncTriggerRefresh)
	respond(s, i, summaryLine(results))
}
