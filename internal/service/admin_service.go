package service

import (
	"context"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/cache"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const healthCacheKey = "llm_healthy"

type IAdminService interface {
	GetMetrics(ctx context.Context) (*dto.MetricsResponse, error)
	ResetMetrics(ctx context.Context) error
	GetCacheStats(ctx context.Context) (*dto.CacheStatsResponse, error)
	ClearCache(ctx context.Context) (*dto.CacheClearResponse, error)
	GetLogs(ctx context.Context, level string, limit, offset int) (*dto.LogsResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type adminService struct {
	tracker     *metrics.Tracker
	lru         *cache.LRUCache
	appLogger   logger.ILogger
	provider    llm.LLMProvider
	db          *gorm.DB
	startedAt   time.Time
	healthCache *gocache.Cache
}

func NewAdminService(
	tracker *metrics.Tracker,
	lru *cache.LRUCache,
	appLogger logger.ILogger,
	provider llm.LLMProvider,
	db *gorm.DB,
) IAdminService {
	return &adminService{
		tracker:   tracker,
		lru:       lru,
		appLogger: appLogger,
		provider:  provider,
		db:        db,
		startedAt: time.Now(),
		// Health probes are throttled; a probe result is reused for 30s.
		healthCache: gocache.New(30*time.Second, time.Minute),
	}
}

func (as *adminService) generationAvailable(ctx context.Context) bool {
	if cached, ok := as.healthCache.Get(healthCacheKey); ok {
		if healthy, ok := cached.(bool); ok {
			return healthy
		}
	}
	healthy := as.provider.IsHealthy(ctx)
	as.healthCache.Set(healthCacheKey, healthy, gocache.DefaultExpiration)
	return healthy
}

func (as *adminService) GetMetrics(ctx context.Context) (*dto.MetricsResponse, error) {
	snap := as.tracker.GetSnapshot()
	return &dto.MetricsResponse{
		TotalRequests:       snap.TotalRequests,
		TotalChats:          snap.TotalChats,
		TotalMessages:       snap.TotalMessages,
		DocumentsUploaded:   snap.DocumentsUploaded,
		AverageResponseTime: snap.AverageResponseTime,
		LastResponseTime:    snap.LastResponseTime,
		P95ResponseTime:     snap.P95ResponseTime,
		UptimeSeconds:       time.Since(as.startedAt).Seconds(),
		GenerationAvailable: as.generationAvailable(ctx),
	}, nil
}

func (as *adminService) ResetMetrics(ctx context.Context) error {
	as.tracker.Reset()
	return nil
}

func (as *adminService) GetCacheStats(ctx context.Context) (*dto.CacheStatsResponse, error) {
	stats := as.lru.Stats()
	return &dto.CacheStatsResponse{
		Size:    stats.Size,
		MaxSize: stats.MaxSize,
		Keys:    stats.Keys,
	}, nil
}

func (as *adminService) ClearCache(ctx context.Context) (*dto.CacheClearResponse, error) {
	stats := as.lru.Stats()
	as.lru.Clear()
	return &dto.CacheClearResponse{Cleared: stats.Size}, nil
}

func (as *adminService) GetLogs(ctx context.Context, level string, limit, offset int) (*dto.LogsResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := as.appLogger.GetLogs(level, limit, offset)
	if err != nil {
		return nil, apperror.NewPersistence("failed to read logs", err)
	}
	return &dto.LogsResponse{Logs: logs, Total: len(logs)}, nil
}

func (as *adminService) Health(ctx context.Context) *dto.HealthResponse {
	resp := &dto.HealthResponse{Status: "ok", Generation: "ok", Database: "ok"}

	if !as.generationAvailable(ctx) {
		resp.Generation = "unavailable"
		resp.Status = "degraded"
	}

	if as.db != nil {
		sqlDB, err := as.db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			resp.Database = "unavailable"
			resp.Status = "degraded"
		}
	}

	return resp
}
