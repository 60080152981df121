package dto

import "ai-chat-be/internal/pkg/logger"

type MetricsResponse struct {
	TotalRequests       int     `json:"total_requests"`
	TotalChats          int     `json:"total_chats"`
	TotalMessages       int     `json:"total_messages"`
	DocumentsUploaded   int     `json:"documents_uploaded"`
	AverageResponseTime float64 `json:"average_response_time_ms"`
	LastResponseTime    float64 `json:"last_response_time_ms"`
	P95ResponseTime     float64 `json:"p95_response_time_ms"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
	GenerationAvailable bool    `json:"generation_available"`
}

type CacheStatsResponse struct {
	Size    int      `json:"size"`
	MaxSize int      `json:"max_size"`
	Keys    []string `json:"keys"`
}

type CacheClearResponse struct {
	Cleared int `json:"cleared"`
}

type LogsResponse struct {
	Logs  []logger.LogEntry `json:"logs"`
	Total int               `json:"total"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Generation string `json:"generation"`
	Database   string `json:"database"`
}
