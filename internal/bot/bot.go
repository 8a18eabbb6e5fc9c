package bot

import (
	"context"
	"fmt"
	"time"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/db/repositories"
	"aethex/emissary/internal/logging"
	"aethex/emissary/internal/reconcile"
	"aethex/emissary/internal/services"

	"github.com/bwmarrin/discordgo"
)

const interactionTimeout = 15 * time.Second

// Bot wires slash commands on an open gateway session to the identity and
// sync services. Guild joins and removals keep the guild registry current.
type Bot struct {
	session     *discordgo.Session
	identitySvc *services.IdentityService
	syncSvc     *services.SyncService
	guildRepo   *repositories.GuildRepository
}

func NewBot(
	session *discordgo.Session,
	identitySvc *services.IdentityService,
	syncSvc *services.SyncService,
	guildRepo *repositories.GuildRepository,
) *Bot {
	return &Bot{
		session:     session,
		identitySvc: identitySvc,
		syncSvc:     syncSvc,
		guildRepo:   guildRepo,
	}
}

// Start registers handlers and the slash command set. The session must
// already be open.
func (b *Bot) Start() error {
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onGuildCreate)
	b.session.AddHandler(b.onGuildDelete)

	appID := b.session.State.User.ID
	for _, guild := range b.session.State.Guilds {
		if _, err := b.session.ApplicationCommandBulkOverwrite(appID, guild.ID, slashCommands()); err != nil {
			return fmt.Errorf("failed to register commands in guild %s: %w", guild.ID, err)
		}
	}

	logging.Info("Bot started", "guilds", len(b.session.State.Guilds))
	return nil
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	switch data.Name {
	case "verify":
		b.handleVerify(ctx, s, i, data)
	case "set-realm":
		b.handleSetRealm(ctx, s, i, data)
	case "refresh-roles":
		b.handleRefreshRoles(ctx, s, i)
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	if err := b.guildRepo.Upsert(ctx, g.ID, g.Name); err != nil {
		logging.Error("Failed to register guild", "guild_id", g.ID, "error", err.Error())
		return
	}
	logging.Info("Guild registered", "guild_id", g.ID, "name", g.Name)
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	// BeforeDelete carries the cached guild; Unavailable means an outage,
	// not a removal
	if g.Unavailable {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	if err := b.guildRepo.Deactivate(ctx, g.ID); err != nil {
		logging.Error("Failed to deactivate guild", "guild_id", g.ID, "error", err.Error())
		return
	}
	logging.Info("Guild deactivated", "guild_id", g.ID)
}

// interactionUserID resolves the invoking user for both guild and DM
// interactions
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logging.Error("Failed to respond to interaction", "error", err.Error())
	}
}

// summaryLine renders a cross-guild sync result for the user, surfacing
// per-guild configuration problems as actionable warnings.
func summaryLine(results []reconcile.GuildResult) string {
	synced, attempted := reconcile.Summarize(results)
	msg := fmt.Sprintf("Roles synced in %d of %d servers.", synced, attempted)

	for _, gr := range results {
		switch gr.Result.Outcome {
		case reconcile.OutcomeNoMappingConfigured:
			msg += "\n" + constants.MsgNoMapping
		case reconcile.OutcomeRoleNotFound:
			msg += "\n" + constants.MsgRoleMissing
		case reconcile.OutcomeProviderError:
			msg += "\n" + constants.MsgSyncRetryLater
		}
	}
	return msg
}
