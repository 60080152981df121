package metrics

import (
	"testing"
	"time"
)

func TestTrackerCounters(t *testing.T) {
	tr := NewTracker()
	tr.RecordChat()
	tr.RecordMessage()
	tr.RecordMessage()
	tr.RecordDocumentUpload()
	tr.RecordRequest()

	snap := tr.GetSnapshot()
	if snap.TotalChats != 1 || snap.TotalMessages != 2 || snap.DocumentsUploaded != 1 || snap.TotalRequests != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestTrackerResponseTimes(t *testing.T) {
	tr := NewTracker()
	tr.RecordResponseTime(100 * time.Millisecond)
	tr.RecordResponseTime(300 * time.Millisecond)

	snap := tr.GetSnapshot()
	if snap.AverageResponseTime != 200 {
		t.Errorf("average = %v, want 200", snap.AverageResponseTime)
	}
	if snap.LastResponseTime != 300 {
		t.Errorf("last = %v, want 300", snap.LastResponseTime)
	}
}

func TestTrackerSampleWindow(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < sampleWindow+50; i++ {
		tr.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	snap := tr.GetSnapshot()
	// Only the most recent window counts: samples 50..149.
	if snap.AverageResponseTime <= 50 {
		t.Errorf("average %v suggests old samples were kept", snap.AverageResponseTime)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.RecordChat()
	tr.RecordResponseTime(time.Second)
	tr.Reset()

	snap := tr.GetSnapshot()
	if snap.TotalChats != 0 || snap.AverageResponseTime != 0 || snap.LastResponseTime != 0 {
		t.Errorf("reset left data behind: %+v", snap)
	}
}
