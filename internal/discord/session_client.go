package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aethex/emissary/internal/logging"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// SessionClient implements MembershipProvider over a discordgo gateway
// session. Outbound REST calls share one limiter so bursty cross-guild syncs
// stay inside Discord's global bucket.
type SessionClient struct {
	session *discordgo.Session
	limiter *rate.Limiter
	timeout time.Duration
}

// Ensure SessionClient implements MembershipProvider
var _ MembershipProvider = (*SessionClient)(nil)

func NewSessionClient(session *discordgo.Session) *SessionClient {
	return &SessionClient{
		session: session,
		limiter: rate.NewLimiter(25, 50), // 25 req/sec, burst 50
		timeout: 10 * time.Second,
	}
}

// NewSession opens a gateway session with the intents the reconciler needs
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMembers

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open discord gateway: %w", err)
	}

	logging.Info("Discord gateway connected", "guilds", len(session.State.Guilds))
	return session, nil
}

func (c *SessionClient) wait(ctx context.Context) (context.Context, context.CancelFunc, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	if err := c.limiter.Wait(callCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}
	return callCtx, cancel, nil
}

// GuildIDs lists the guilds known to the gateway state
func (c *SessionClient) GuildIDs() []string {
	guilds := c.session.State.Guilds
	ids := make([]string, 0, len(guilds))
	for _, g := range guilds {
		ids = append(ids, g.ID)
	}
	return ids
}

// Member resolves a guild member, preferring gateway state over REST
func (c *SessionClient) Member(ctx context.Context, guildID, memberID string) (*Member, error) {
	if m, err := c.session.State.Member(guildID, memberID); err == nil {
		return &Member{ID: memberID, RoleIDs: append([]string(nil), m.Roles...)}, nil
	}

	callCtx, cancel, err := c.wait(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	m, err := c.session.GuildMember(guildID, memberID, discordgo.WithContext(callCtx))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch member %s in guild %s: %w", memberID, guildID, err)
	}

	return &Member{ID: memberID, RoleIDs: append([]string(nil), m.Roles...)}, nil
}

// GuildRoles returns the live role catalog for a guild
func (c *SessionClient) GuildRoles(ctx context.Context, guildID string) ([]Role, error) {
	callCtx, cancel, err := c.wait(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	raw, err := c.session.GuildRoles(guildID, discordgo.WithContext(callCtx))
	if err != nil {
		return nil, fmt.Errorf("fetch roles for guild %s: %w", guildID, err)
	}

	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, Role{ID: r.ID, Name: r.Name})
	}
	return roles, nil
}

func (c *SessionClient) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	callCtx, cancel, err := c.wait(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := c.session.GuildMemberRoleAdd(guildID, memberID, roleID, discordgo.WithContext(callCtx)); err != nil {
		return fmt.Errorf("add role %s to %s in guild %s: %w", roleID, memberID, guildID, err)
	}
	return nil
}

func (c *SessionClient) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	callCtx, cancel, err := c.wait(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := c.session.GuildMemberRoleRemove(guildID, memberID, roleID, discordgo.WithContext(callCtx)); err != nil {
		return fmt.Errorf("remove role %s from %s in guild %s: %w", roleID, memberID, guildID, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
			return true
		}
	}
	return false
}
