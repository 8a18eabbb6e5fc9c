package reconcile

import (
	"context"
	"fmt"
	"sync"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/logging"

	"golang.org/x/sync/errgroup"
)

// GuildResult pairs one guild with its reconciliation outcome
type GuildResult struct {
	GuildID string
	Result  Result
}

// Orchestrator applies the reconciler for one member across every guild the
// bot is present in, isolating per-guild faults. One unreachable guild never
// aborts the rest.
type Orchestrator struct {
	reconciler *Reconciler
	// maxConcurrent bounds the cross-guild fan-out
	maxConcurrent int
}

func NewOrchestrator(reconciler *Reconciler) *Orchestrator {
	return &Orchestrator{reconciler: reconciler, maxConcurrent: 4}
}

// SyncAll reconciles the member in every joined guild. Guilds where the
// member is absent are skipped silently; entries carry guild ids so callers
// can report "synced in N of M" regardless of completion order.
func (o *Orchestrator) SyncAll(ctx context.Context, memberID string, arm constants.Arm) []GuildResult {
	guildIDs := o.reconciler.provider.GuildIDs()

	var (
		mu      sync.Mutex
		results []GuildResult
	)

	g := new(errgroup.Group)
	g.SetLimit(o.maxConcurrent)

	for _, guildID := range guildIDs {
		guildID := guildID
		g.Go(func() error {
			res := o.reconcileGuarded(ctx, guildID, memberID, arm)

			// Absence from a guild is expected and common, not a result
			if res.Outcome == OutcomeMemberNotFound {
				return nil
			}

			mu.Lock()
			results = append(results, GuildResult{GuildID: guildID, Result: res})
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// reconcileGuarded keeps a panicking provider fault local to its guild
func (o *Orchestrator) reconcileGuarded(ctx context.Context, guildID, memberID string, arm constants.Arm) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Reconciliation panicked",
				"guild_id", guildID,
				"member_id", memberID,
				"panic", fmt.Sprintf("%v", r),
			)
			res = Result{Outcome: OutcomeProviderError, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.reconciler.Reconcile(ctx, guildID, memberID, arm)
}

// Summarize counts successful guilds for user-facing messages
func Summarize(results []GuildResult) (synced, attempted int) {
	for _, r := range results {
		attempted++
		if r.Result.Outcome.Success() {
			synced++
		}
	}
	return synced, attempted
}
