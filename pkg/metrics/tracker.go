// Package metrics keeps lightweight in-process counters for the admin
// dashboard. Nothing here persists; a restart resets every counter.
package metrics

import (
	"sort"
	"sync"
	"time"
)

const sampleWindow = 100

type Snapshot struct {
	TotalRequests       int     `json:"total_requests"`
	TotalChats          int     `json:"total_chats"`
	TotalMessages       int     `json:"total_messages"`
	DocumentsUploaded   int     `json:"documents_uploaded"`
	AverageResponseTime float64 `json:"average_response_time_ms"`
	LastResponseTime    float64 `json:"last_response_time_ms"`
	P95ResponseTime     float64 `json:"p95_response_time_ms"`
}

type Tracker struct {
	mu                sync.Mutex
	totalRequests     int
	totalChats        int
	totalMessages     int
	documentsUploaded int
	responseTimes     []float64
	lastResponseTime  float64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) RecordRequest() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalRequests++
}

func (t *Tracker) RecordChat() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalChats++
}

func (t *Tracker) RecordMessage() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalMessages++
}

func (t *Tracker) RecordDocumentUpload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.documentsUploaded++
}

func (t *Tracker) RecordResponseTime(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ms := float64(d.Milliseconds())
	t.lastResponseTime = ms
	t.responseTimes = append(t.responseTimes, ms)
	if len(t.responseTimes) > sampleWindow {
		t.responseTimes = t.responseTimes[len(t.responseTimes)-sampleWindow:]
	}
}

func (t *Tracker) GetSnapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		TotalRequests:     t.totalRequests,
		TotalChats:        t.totalChats,
		TotalMessages:     t.totalMessages,
		DocumentsUploaded: t.documentsUploaded,
		LastResponseTime:  t.lastResponseTime,
	}

	if len(t.responseTimes) == 0 {
		return snap
	}

	var sum float64
	sorted := make([]float64, len(t.responseTimes))
	copy(sorted, t.responseTimes)
	sort.Float64s(sorted)
	for _, v := range sorted {
		sum += v
	}

	snap.AverageResponseTime = sum / float64(len(sorted))
	snap.P95ResponseTime = sorted[int(0.95*float64(len(sorted)-1))]
	return snap
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalRequests = 0
	t.totalChats = 0
	t.totalMessages = 0
	t.documentsUploaded = 0
	t.responseTimes = nil
	t.lastResponseTime = 0
}
