package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/discord"
	"aethex/emissary/internal/models/entities"
)

// Fake guild membership provider backed by in-memory state
type fakeGuild struct {
	roles   []discord.Role
	members map[string][]string // member id -> held role ids
}

type fakeProvider struct {
	guilds map[string]*fakeGuild

	memberErr  map[string]error // guild id -> injected member fetch fault
	rolesErr   map[string]error
	removeErrs map[string]error // role id -> injected removal fault
	addErr     error

	addCalls    int
	removeCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		guilds:     map[string]*fakeGuild{},
		memberErr:  map[string]error{},
		rolesErr:   map[string]error{},
		removeErrs: map[string]error{},
	}
}

func (p *fakeProvider) addGuild(guildID string, roles ...discord.Role) *fakeGuild {
	g := &fakeGuild{roles: roles, members: map[string][]string{}}
	p.guilds[guildID] = g
	return g
}

func (p *fakeProvider) GuildIDs() []string {
	ids := make([]string, 0, len(p.guilds))
	for id := range p.guilds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p *fakeProvider) Member(ctx context.Context, guildID, memberID string) (*discord.Member, error) {
	if err := p.memberErr[guildID]; err != nil {
		return nil, err
	}
	g, ok := p.guilds[guildID]
	if !ok {
		return nil, fmt.Errorf("unknown guild %s", guildID)
	}
	held, ok := g.members[memberID]
	if !ok {
		return nil, nil
	}
	return &discord.Member{ID: memberID, RoleIDs: append([]string(nil), held...)}, nil
}

func (p *fakeProvider) GuildRoles(ctx context.Context, guildID string) ([]discord.Role, error) {
	if err := p.rolesErr[guildID]; err != nil {
		return nil, err
	}
	return p.guilds[guildID].roles, nil
}

func (p *fakeProvider) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	p.addCalls++
	if p.addErr != nil {
		return p.addErr
	}
	g := p.guilds[guildID]
	g.members[memberID] = append(g.members[memberID], roleID)
	return nil
}

func (p *fakeProvider) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	p.removeCalls++
	if err := p.removeErrs[roleID]; err != nil {
		return err
	}
	g := p.guilds[guildID]
	held := g.members[memberID]
	next := held[:0]
	for _, id := range held {
		if id != roleID {
			next = append(next, id)
		}
	}
	g.members[memberID] = next
	return nil
}

func (p *fakeProvider) heldRoles(guildID, memberID string) []string {
	held := append([]string(nil), p.guilds[guildID].members[memberID]...)
	sort.Strings(held)
	return held
}

// Fake mapping lookup
type fakeMappings struct {
	rows      map[string]map[constants.Arm]string // guild id -> arm -> role ref
	lookupErr error
	familyErr error
}

func newFakeMappings() *fakeMappings {
	return &fakeMappings{rows: map[string]map[constants.Arm]string{}}
}

func (m *fakeMappings) set(guildID string, arm constants.Arm, roleRef string) {
	if m.rows[guildID] == nil {
		m.rows[guildID] = map[constants.Arm]string{}
	}
	m.rows[guildID][arm] = roleRef
}

func (m *fakeMappings) Lookup(ctx context.Context, guildID string, arm constants.Arm) (*entities.RoleMapping, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	ref, ok := m.rows[guildID][arm]
	if !ok {
		return nil, nil
	}
	return &entities.RoleMapping{GuildID: guildID, Arm: arm, RoleRef: ref}, nil
}

func (m *fakeMappings) FamilyRefs(ctx context.Context, guildID string) ([]string, error) {
	if m.familyErr != nil {
		return nil, m.familyErr
	}
	var refs []string
	for _, ref := range m.rows[guildID] {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReconcile_AssignsAndRemovesFamilyRole(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1",
		discord.Role{ID: "r-labs", Name: "Labs"},
		discord.Role{ID: "r-gf", Name: "GameForge"},
		discord.Role{ID: "r-corp", Name: "Corp"},
	)
	g.members["m1"] = []string{"r-gf"}

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmCorp, "Corp")

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmCorp)

	if res.Outcome != OutcomeAssigned {
		t.Fatalf("Expected ASSIGNED, got %s (err: %v)", res.Outcome, res.Err)
	}
	if got := provider.heldRoles("g1", "m1"); !equalStrings(got, []string{"r-corp"}) {
		t.Errorf("Expected final role set [r-corp], got %v", got)
	}
	if !equalStrings(res.Removed, []string{"r-gf"}) {
		t.Errorf("Expected GameForge removed, got %v", res.Removed)
	}
}

func TestReconcile_Idempotence(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1",
		discord.Role{ID: "r-labs", Name: "Labs"},
		discord.Role{ID: "r-gf", Name: "GameForge"},
		discord.Role{ID: "r-corp", Name: "Corp"},
	)
	g.members["m1"] = []string{}

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmLabs, "Labs")

	rec := New(provider, mappings)

	first := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmLabs)
	if first.Outcome != OutcomeAssigned {
		t.Fatalf("First call: expected ASSIGNED, got %s", first.Outcome)
	}
	afterFirst := provider.heldRoles("g1", "m1")

	mutationsBefore := provider.addCalls + provider.removeCalls
	second := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmLabs)
	if second.Outcome != OutcomeAlreadyAssigned {
		t.Fatalf("Second call: expected ALREADY_ASSIGNED, got %s", second.Outcome)
	}
	if provider.addCalls+provider.removeCalls != mutationsBefore {
		t.Errorf("Second call mutated roles: %d calls before, %d after",
			mutationsBefore, provider.addCalls+provider.removeCalls)
	}
	if got := provider.heldRoles("g1", "m1"); !equalStrings(got, afterFirst) {
		t.Errorf("Role set changed across idempotent calls: %v vs %v", afterFirst, got)
	}
}

func TestReconcile_ExclusivityAcrossArms(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1",
		discord.Role{ID: "r-labs", Name: "Labs"},
		discord.Role{ID: "r-nexus", Name: "Nexus"},
	)
	g.members["m1"] = []string{}

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmLabs, "Labs")
	mappings.set("g1", constants.ArmNexus, "Nexus")

	rec := New(provider, mappings)

	if res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmLabs); res.Outcome != OutcomeAssigned {
		t.Fatalf("Labs assign failed: %s", res.Outcome)
	}
	if res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmNexus); res.Outcome != OutcomeAssigned {
		t.Fatalf("Nexus assign failed: %s", res.Outcome)
	}

	if got := provider.heldRoles("g1", "m1"); !equalStrings(got, []string{"r-nexus"}) {
		t.Errorf("Expected only Nexus role after switch, got %v", got)
	}
}

func TestReconcile_MissingMappingIsNonMutating(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1", discord.Role{ID: "r-labs", Name: "Labs"})
	g.members["m1"] = []string{"r-labs"}

	rec := New(provider, newFakeMappings())
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmCorp)

	if res.Outcome != OutcomeNoMappingConfigured {
		t.Fatalf("Expected NO_MAPPING_CONFIGURED, got %s", res.Outcome)
	}
	if got := provider.heldRoles("g1", "m1"); !equalStrings(got, []string{"r-labs"}) {
		t.Errorf("Role set changed: %v", got)
	}
	if provider.addCalls+provider.removeCalls != 0 {
		t.Errorf("Expected zero mutations, saw %d", provider.addCalls+provider.removeCalls)
	}
}

func TestReconcile_UnresolvableRoleIsNonMutating(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1", discord.Role{ID: "r-labs", Name: "Labs"})
	g.members["m1"] = []string{"r-labs"}

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmCorp, "Corp") // role was deleted from the guild

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmCorp)

	if res.Outcome != OutcomeRoleNotFound {
		t.Fatalf("Expected ROLE_NOT_FOUND, got %s", res.Outcome)
	}
	if provider.addCalls+provider.removeCalls != 0 {
		t.Errorf("Expected zero mutations, saw %d", provider.addCalls+provider.removeCalls)
	}
}

func TestReconcile_MemberNotFound(t *testing.T) {
	provider := newFakeProvider()
	provider.addGuild("g1", discord.Role{ID: "r-labs", Name: "Labs"})

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmLabs, "Labs")

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "ghost", constants.ArmLabs)

	if res.Outcome != OutcomeMemberNotFound {
		t.Fatalf("Expected MEMBER_NOT_FOUND, got %s", res.Outcome)
	}
}

func TestReconcile_ResolvesByIDBeforeName(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1",
		discord.Role{ID: "111", Name: "Labs"},
		discord.Role{ID: "222", Name: "111"}, // name collides with the other role's id
	)
	g.members["m1"] = []string{}

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmLabs, "111")

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmLabs)

	if res.Outcome != OutcomeAssigned {
		t.Fatalf("Expected ASSIGNED, got %s", res.Outcome)
	}
	if res.RoleID != "111" {
		t.Errorf("Expected ID match to win, resolved %s", res.RoleID)
	}
}

func TestReconcile_PartialRemovalFailureStillAssigns(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1",
		discord.Role{ID: "r-labs", Name: "Labs"},
		discord.Role{ID: "r-gf", Name: "GameForge"},
		discord.Role{ID: "r-nexus", Name: "Nexus"},
	)
	g.members["m1"] = []string{"r-gf", "r-nexus"}
	provider.removeErrs["r-gf"] = errors.New("missing permissions")

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmLabs, "Labs")

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmLabs)

	if res.Outcome != OutcomeAssigned {
		t.Fatalf("Expected ASSIGNED despite partial removal failure, got %s", res.Outcome)
	}
	if !equalStrings(res.Removed, []string{"r-nexus"}) {
		t.Errorf("Expected only Nexus removed, got %v", res.Removed)
	}
	held := provider.heldRoles("g1", "m1")
	if !equalStrings(held, []string{"r-gf", "r-labs"}) {
		t.Errorf("Unexpected final role set %v", held)
	}
}

func TestReconcile_TargetAddFailureIsProviderError(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1", discord.Role{ID: "r-labs", Name: "Labs"})
	g.members["m1"] = []string{}
	provider.addErr = errors.New("permission denied")

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmLabs, "Labs")

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmLabs)

	if res.Outcome != OutcomeProviderError {
		t.Fatalf("Expected PROVIDER_ERROR, got %s", res.Outcome)
	}
	if res.Err == nil {
		t.Error("Expected diagnostic error on PROVIDER_ERROR")
	}
}

func TestReconcile_MappedRefSweepsRenamedRole(t *testing.T) {
	// A role renamed away from the arm naming convention is still swept
	// because its mapping row tags it as arm-family.
	provider := newFakeProvider()
	g := provider.addGuild("g1",
		discord.Role{ID: "r-old", Name: "The Forge Collective"},
		discord.Role{ID: "r-corp", Name: "Corp"},
	)
	g.members["m1"] = []string{"r-old"}

	mappings := newFakeMappings()
	mappings.set("g1", constants.ArmGameForge, "r-old")
	mappings.set("g1", constants.ArmCorp, "Corp")

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmCorp)

	if res.Outcome != OutcomeAssigned {
		t.Fatalf("Expected ASSIGNED, got %s", res.Outcome)
	}
	if got := provider.heldRoles("g1", "m1"); !equalStrings(got, []string{"r-corp"}) {
		t.Errorf("Expected renamed arm role swept, final set %v", got)
	}
}

func TestReconcile_AmbiguousMappingIsProviderError(t *testing.T) {
	provider := newFakeProvider()
	g := provider.addGuild("g1", discord.Role{ID: "r-labs", Name: "Labs"})
	g.members["m1"] = []string{}

	mappings := newFakeMappings()
	mappings.lookupErr = errors.New("multiple role mappings configured for guild/arm")

	rec := New(provider, mappings)
	res := rec.Reconcile(context.Background(), "g1", "m1", constants.ArmLabs)

	if res.Outcome != OutcomeProviderError {
		t.Fatalf("Expected PROVIDER_ERROR for ambiguous mapping, got %s", res.Outcome)
	}
	if provider.addCalls+provider.removeCalls != 0 {
		t.Errorf("Expected zero mutations, saw %d", provider.addCalls+provider.removeCalls)
	}
}
