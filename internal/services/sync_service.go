package services

import (
	"context"
	"time"

	"aethex/emissary/internal/common"
	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/logging"
	"aethex/emissary/internal/metrics"
	gormModels "aethex/emissary/internal/models/gorm"
	"aethex/emissary/internal/reconcile"
)

// SyncHistory is the audit sink for reconciliation outcomes
type SyncHistory interface {
	Record(ctx context.Context, rec *gormModels.SyncRecord) error
}

// SyncService drives reconciliations and records every outcome. Audit
// failures are logged, never allowed to fail the sync itself.
type SyncService struct {
	orchestrator *reconcile.Orchestrator
	reconciler   *reconcile.Reconciler
	history      SyncHistory
	queue        *common.RedisQueueService
	metricsReg   *metrics.MetricsRegistry
}

func NewSyncService(
	orchestrator *reconcile.Orchestrator,
	reconciler *reconcile.Reconciler,
	history SyncHistory,
	queue *common.RedisQueueService,
	metricsReg *metrics.MetricsRegistry,
) *SyncService {
	return &SyncService{
		orchestrator: orchestrator,
		reconciler:   reconciler,
		history:      history,
		queue:        queue,
		metricsReg:   metricsReg,
	}
}

// SyncMember reconciles one member across all guilds and audits each outcome
func (s *SyncService) SyncMember(ctx context.Context, discordID string, arm constants.Arm, trigger string) []reconcile.GuildResult {
	start := time.Now()
	results := s.orchestrator.SyncAll(ctx, discordID, arm)
	if s.metricsReg != nil {
		s.metricsReg.SyncAllDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	}

	for _, gr := range results {
		s.record(ctx, gr.GuildID, discordID, arm, gr.Result, trigger)
	}
	return results
}

// SyncMemberInGuild reconciles one member in a single guild
func (s *SyncService) SyncMemberInGuild(ctx context.Context, guildID, discordID string, arm constants.Arm, trigger string) reconcile.Result {
	result := s.reconciler.Reconcile(ctx, guildID, discordID, arm)
	s.record(ctx, guildID, discordID, arm, result, trigger)
	return result
}

// EnqueueRefresh defers a member refresh to the queue worker
func (s *SyncService) EnqueueRefresh(ctx context.Context, discordID string, arm constants.Arm, trigger string) error {
	return s.queue.EnqueueRefresh(ctx, constants.RoleRefreshStream, &common.RefreshQueueItem{
		DiscordID: discordID,
		Arm:       arm.String(),
		Trigger:   trigger,
	})
}

func (s *SyncService) record(ctx context.Context, guildID, discordID string, arm constants.Arm, result reconcile.Result, trigger string) {
	if s.metricsReg != nil {
		s.metricsReg.ReconciliationsTotal.WithLabelValues(string(result.Outcome), trigger).Inc()
	}

	detail := ""
	if result.Err != nil {
		detail = result.Err.Error()
	}

	rec := &gormModels.SyncRecord{
		GuildID:   guildID,
		DiscordID: discordID,
		Arm:       arm.String(),
		Outcome:   string(result.Outcome),
		Detail:    detail,
		Trigger:   trigger,
	}

	if err := s.history.Record(ctx, rec); err != nil {
		logging.Warn("Failed to record sync outcome",
			"guild_id", guildID,
			"discord_id", discordID,
			"error", err.Error(),
		)
	}
}
