package workers

import (
	"context"
	"time"

	"aethex/emissary/internal/api"
)

type WorkersContainer struct {
	RefreshWorker *RefreshQueueWorker
	DriftAudit    *DriftAuditWorker
}

func InitWorkers(deps *api.Dependencies) *WorkersContainer {
	refresh := NewRefreshQueueWorker("refresh", deps.Services.Queue, deps.Services.Sync, deps.MetricsReg)
	audit := NewDriftAuditWorker(deps.Services.Identity, deps.Services.Sync)

	go refresh.Start(context.Background(), 3)
	go audit.Start(context.Background(), 1*time.Hour)

	return &WorkersContainer{
		RefreshWorker: refresh,
		DriftAudit:    audit,
	}
}
