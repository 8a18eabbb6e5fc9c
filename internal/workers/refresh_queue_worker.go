package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"aethex/emissary/internal/common"
	"aethex/emissary/internal/constants"
	"aethex/emissary/internal/metrics"
	"aethex/emissary/internal/reconcile"
	"aethex/emissary/internal/services"
)

const refreshConsumerGroup = "refresh-workers"

// RefreshQueueWorker drains queued member refreshes from the Redis stream
// and runs a cross-guild sync for each one.
type RefreshQueueWorker struct {
	workerID   string
	redisQueue *common.RedisQueueService
	syncSvc    *services.SyncService
	metricsReg *metrics.MetricsRegistry
}

// NewRefreshQueueWorker creates a new refresh queue worker
func NewRefreshQueueWorker(
	workerID string,
	redisQueue *common.RedisQueueService,
	syncSvc *services.SyncService,
	metricsReg *metrics.MetricsRegistry,
) *RefreshQueueWorker {
	return &RefreshQueueWorker{
		workerID:   workerID,
		redisQueue: redisQueue,
		syncSvc:    syncSvc,
		metricsReg: metricsReg,
	}
}

// Start spawns numWorkers consumers on the refresh stream and blocks until
// the context is cancelled.
func (w *RefreshQueueWorker) Start(ctx context.Context, numWorkers int) error {
	log.Printf("[RefreshQueueWorker] Starting %d workers with ID prefix: %s", numWorkers, w.workerID)

	if err := w.redisQueue.CreateConsumerGroup(ctx, constants.RoleRefreshStream, refreshConsumerGroup); err != nil {
		log.Printf("[RefreshQueueWorker] Warning - failed to create consumer group: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		consumerName := fmt.Sprintf("%s-worker-%d", w.workerID, i)

		go func(consumerName string) {
			defer wg.Done()
			w.processQueue(ctx, consumerName)
		}(consumerName)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.reportDepth(ctx, 30*time.Second)
	}()

	wg.Wait()
	log.Printf("[RefreshQueueWorker] All workers stopped")
	return nil
}

// processQueue continuously consumes refresh requests from the stream
func (w *RefreshQueueWorker) processQueue(ctx context.Context, consumerName string) {
	log.Printf("[%s] Started processing queue: %s", consumerName, constants.RoleRefreshStream)

	processedCount := 0
	errorCount := 0

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] Shutting down. Processed: %d, Errors: %d", consumerName, processedCount, errorCount)
			return
		default:
			item, messageID, err := w.redisQueue.DequeueRefresh(ctx, constants.RoleRefreshStream, refreshConsumerGroup, consumerName, 5*time.Second)
			if err != nil {
				log.Printf("[%s] Error dequeuing: %v", consumerName, err)
				time.Sleep(1 * time.Second) // Back off on error
				continue
			}

			if item == nil {
				// No messages available (timeout), continue loop
				continue
			}

			if err := w.processRefresh(ctx, item); err != nil {
				log.Printf("[%s] Error refreshing member %s: %v", consumerName, item.DiscordID, err)
				errorCount++
				// Still acknowledged to avoid reprocessing indefinitely
			} else {
				processedCount++
			}

			if err := w.redisQueue.AckRefresh(ctx, constants.RoleRefreshStream, refreshConsumerGroup, messageID); err != nil {
				log.Printf("[%s] Error acknowledging message %s: %v", consumerName, messageID, err)
			}
		}
	}
}

// processRefresh runs the cross-guild sync for a single queued request
func (w *RefreshQueueWorker) processRefresh(ctx context.Context, item *common.RefreshQueueItem) error {
	arm, err := constants.ParseArm(item.Arm)
	if err != nil {
		return fmt.Errorf("invalid arm %q: %w", item.Arm, err)
	}

	trigger := item.Trigger
	if trigger == "" {
		trigger = constants.SyncTriggerRefresh
	}

	results := w.syncSvc.SyncMember(ctx, item.DiscordID, arm, trigger)
	synced, attempted := reconcile.Summarize(results)

	for _, gr := range results {
		if gr.Result.Outcome == reconcile.OutcomeProviderError {
			return fmt.Errorf("synced %d of %d guilds: %v", synced, attempted, gr.Result.Err)
		}
	}
	return nil
}

// reportDepth periodically publishes the stream length as a gauge
func (w *RefreshQueueWorker) reportDepth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			length, err := w.redisQueue.GetQueueLength(ctx, constants.RoleRefreshStream)
			if err != nil {
				log.Printf("[RefreshQueueWorker] Error reading queue length: %v", err)
				continue
			}
			if w.metricsReg != nil {
				w.metricsReg.RefreshQueueDepth.Set(float64(length))
			}
		}
	}
}
