package api

import (
	"os"

	"aethex/emissary/internal/common"
	"aethex/emissary/internal/db"
	"aethex/emissary/internal/db/repositories"
	"aethex/emissary/internal/discord"
	"aethex/emissary/internal/metrics"
	"aethex/emissary/internal/reconcile"
	"aethex/emissary/internal/services"

	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	Mappings *repositories.RoleMappingRepository
	Identity *repositories.IdentityRepository
	Keys     *repositories.KeysRepo
	Guilds   *repositories.GuildRepository
	History  *repositories.SyncHistoryRepo
}

type Services struct {
	Cache    common.CacheInterface
	Queue    *common.RedisQueueService
	Mappings *services.RoleMappingService
	Identity *services.IdentityService
	Sync     *services.SyncService
}

type Dependencies struct {
	Repo       *Repositories
	Services   *Services
	Provider   discord.MembershipProvider
	Redis      *redis.Client
	MetricsReg *metrics.MetricsRegistry
}

func InitDependencies(provider discord.MembershipProvider, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Mappings: repositories.NewRoleMappingRepository(db.DB),
		Identity: repositories.NewIdentityRepository(db.DB),
		Keys:     repositories.NewApiKeysRepo(db.DB),
		Guilds:   repositories.NewGuildRepository(db.PgDB),
		History:  repositories.NewSyncHistoryRepo(db.PgDB),
	}

	redisClient := common.NewRedisClient()
	queue := common.NewRedisQueueService(redisClient)

	var cache common.CacheInterface
	if os.Getenv("CACHE_BACKEND") == "redis" {
		cache = common.NewRedisCacheService(redisClient)
	} else {
		cache = common.NewCacheService(300, 600)
	}

	mappingSvc := services.NewRoleMappingService(repos.Mappings, cache)
	identitySvc := services.NewIdentityService(repos.Identity)

	reconciler := reconcile.New(provider, mappingSvc)
	orchestrator := reconcile.NewOrchestrator(reconciler)
	syncSvc := services.NewSyncService(orchestrator, reconciler, repos.History, queue, metricsReg)

	svcs := &Services{
		Cache:    cache,
		Queue:    queue,
		Mappings: mappingSvc,
		Identity: identitySvc,
		Sync:     syncSvc,
	}

	return &Dependencies{
		Repo:       repos,
		Services:   svcs,
		Provider:   provider,
		Redis:      redisClient,
		MetricsReg: metricsReg,
	}, nil

}
