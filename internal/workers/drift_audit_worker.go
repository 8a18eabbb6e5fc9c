package workers

import (
	"context"
	"log"
	"time"

	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/services"
)

// DriftAuditWorker periodically re-enqueues every linked identity so that
// manual role edits on Discord converge back to the stored primary arm.
type DriftAuditWorker struct {
	identitySvc *services.IdentityService
	syncSvc     *services.SyncService
}

func NewDriftAuditWorker(identitySvc *services.IdentityService, syncSvc *services.SyncService) *DriftAuditWorker {
	return &DriftAuditWorker{
		identitySvc: identitySvc,
		syncSvc:     syncSvc,
	}
}

// Start runs the audit sweep on the given interval until the context ends
func (w *DriftAuditWorker) Start(ctx context.Context, interval time.Duration) {
	log.Printf("[DriftAuditWorker] Starting drift audit (interval: %s)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[DriftAuditWorker] Shutting down")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep enqueues a refresh for every active linked identity
func (w *DriftAuditWorker) sweep(ctx context.Context) {
	identities, err := w.identitySvc.AllLinked(ctx)
	if err != nil {
		log.Printf("[DriftAuditWorker] Error fetching linked identities: %v", err)
		return
	}

	enqueued := 0
	for _, id := range identities {
		if !id.Linked() {
			continue
		}
		if err := w.syncSvc.EnqueueRefresh(ctx, *id.DiscordID, id.PrimaryArm, constants.SyncTriggerAudit); err != nil {
			log.Printf("[DriftAuditWorker] Error enqueuing refresh for %s: %v", *id.DiscordID, err)
			continue
		}
		enqueued++
	}

	log.Printf("[DriftAuditWorker] Enqueued %d of %d linked identities", enqueued, len(identities))
}
