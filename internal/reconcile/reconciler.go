package reconcile

import (
	"context"
	"fmt"
	"strings"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/discord"
	"aethex/emissary/internal/logging"
	"aethex/emissary/internal/models/entities"
)

// Outcome is the terminal state of one reconciliation. Callers get a tag,
// never a bare bool, so "nothing to do" stays distinguishable from "acted"
// and from "could not act".
type Outcome string

const (
	OutcomeAssigned            Outcome = "ASSIGNED"
	OutcomeAlreadyAssigned     Outcome = "ALREADY_ASSIGNED"
	OutcomeNoMappingConfigured Outcome = "NO_MAPPING_CONFIGURED"
	OutcomeRoleNotFound        Outcome = "ROLE_NOT_FOUND"
	OutcomeMemberNotFound      Outcome = "MEMBER_NOT_FOUND"
	OutcomeProviderError       Outcome = "PROVIDER_ERROR"
)

// Success reports whether the member ended the call holding the target role
func (o Outcome) Success() bool {
	return o == OutcomeAssigned || o == OutcomeAlreadyAssigned
}

// Result is the outcome of reconciling one member in one guild
type Result struct {
	Outcome Outcome
	// RoleID is the resolved target role, when resolution got that far
	RoleID string
	// Removed lists the stale arm-family role ids that were taken off
	Removed []string
	// Err carries diagnostic context for PROVIDER_ERROR outcomes
	Err error
}

// MappingLookup is the role-mapping surface the reconciler consumes. Lookup
// returns (nil, nil) when no mapping is configured; that is an expected
// outcome, distinct from a transport fault.
type MappingLookup interface {
	Lookup(ctx context.Context, guildID string, arm constants.Arm) (*entities.RoleMapping, error)

	// FamilyRefs returns every role reference mapped for the guild across
	// all arms. The mapping rows are the authoritative arm-family tags.
	FamilyRefs(ctx context.Context, guildID string) ([]string, error)
}

// Reconciler brings one member's held roles in one guild into agreement with
// a single target arm. It holds no state of its own; both collaborators are
// injected so tests can supply fakes.
type Reconciler struct {
	provider discord.MembershipProvider
	mappings MappingLookup
}

func New(provider discord.MembershipProvider, mappings MappingLookup) *Reconciler {
	return &Reconciler{provider: provider, mappings: mappings}
}

// Reconcile resolves the member, looks up the (guild, arm) mapping, removes
// any other arm-family roles the member holds, and ensures the target role
// is present. Idempotent: a second call with unchanged external state makes
// no mutations and reports ALREADY_ASSIGNED.
func (r *Reconciler) Reconcile(ctx context.Context, guildID, memberID string, arm constants.Arm) Result {
	log := logging.WithReconcile(guildID, memberID, arm.String())

	member, err := r.provider.Member(ctx, guildID, memberID)
	if err != nil {
		log.Errorw("Failed to resolve member", "step", "member_fetch", "error", err.Error())
		return Result{Outcome: OutcomeProviderError, Err: fmt.Errorf("member fetch: %w", err)}
	}
	if member == nil {
		return Result{Outcome: OutcomeMemberNotFound}
	}

	mapping, err := r.mappings.Lookup(ctx, guildID, arm)
	if err != nil {
		log.Errorw("Failed to look up role mapping", "step", "mapping_lookup", "error", err.Error())
		return Result{Outcome: OutcomeProviderError, Err: fmt.Errorf("mapping lookup: %w", err)}
	}
	if mapping == nil {
		return Result{Outcome: OutcomeNoMappingConfigured}
	}

	roles, err := r.provider.GuildRoles(ctx, guildID)
	if err != nil {
		log.Errorw("Failed to fetch guild roles", "step", "role_fetch", "error", err.Error())
		return Result{Outcome: OutcomeProviderError, Err: fmt.Errorf("role fetch: %w", err)}
	}

	target := resolveRole(roles, mapping.RoleRef)
	if target == nil {
		return Result{Outcome: OutcomeRoleNotFound}
	}

	// Stale-role sweep is best effort: a lookup failure here degrades to
	// name-based detection rather than aborting the reconciliation.
	familyRefs, err := r.mappings.FamilyRefs(ctx, guildID)
	if err != nil {
		log.Warnw("Family refs unavailable, using name detection only", "error", err.Error())
		familyRefs = nil
	}

	family := familyRoleIDs(roles, familyRefs, target.ID)

	var removed []string
	for _, roleID := range member.RoleIDs {
		if !family[roleID] {
			continue
		}
		// Partial failures are tolerated: a stuck removal is logged and the
		// sweep continues, since repeated invocations converge.
		if err := r.provider.RemoveRole(ctx, guildID, memberID, roleID); err != nil {
			log.Warnw("Failed to remove stale arm role", "role_id", roleID, "error", err.Error())
			continue
		}
		removed = append(removed, roleID)
	}

	if member.HasRole(target.ID) {
		return Result{Outcome: OutcomeAlreadyAssigned, RoleID: target.ID, Removed: removed}
	}

	if err := r.provider.AddRole(ctx, guildID, memberID, target.ID); err != nil {
		log.Errorw("Failed to assign target role", "step", "role_add", "role_id", target.ID, "error", err.Error())
		return Result{
			Outcome: OutcomeProviderError,
			RoleID:  target.ID,
			Removed: removed,
			Err:     fmt.Errorf("role add: %w", err),
		}
	}

	log.Infow("Arm role assigned", "role_id", target.ID, "removed", len(removed))
	return Result{Outcome: OutcomeAssigned, RoleID: target.ID, Removed: removed}
}

// resolveRole matches a mapping reference against the guild's live roles,
// by platform ID first, then exact display-name equality
func resolveRole(roles []discord.Role, ref string) *discord.Role {
	for i := range roles {
		if roles[i].ID == ref {
			return &roles[i]
		}
	}
	for i := range roles {
		if roles[i].Name == ref {
			return &roles[i]
		}
	}
	return nil
}

// familyRoleIDs computes the guild roles that count as arm-family, excluding
// the resolved target. A role qualifies when it is referenced by any mapping
// row for the guild, or when its name contains one of the fixed arm tags
// (case-insensitive) so roles predating mapping rows still get swept.
func familyRoleIDs(roles []discord.Role, mappedRefs []string, targetID string) map[string]bool {
	refs := make(map[string]bool, len(mappedRefs))
	for _, ref := range mappedRefs {
		refs[ref] = true
	}

	family := make(map[string]bool)
	for _, role := range roles {
		if role.ID == targetID {
			continue
		}
		if refs[role.ID] || refs[role.Name] {
			family[role.ID] = true
			continue
		}
		name := strings.ToLower(role.Name)
		for _, arm := range constants.AllArms {
			if strings.Contains(name, arm.String()) {
				family[role.ID] = true
				break
			}
		}
	}
	return family
}
