package stream

import (
	"bufio"
	"bytes"
	"testing"
)

func TestSSEFraming(t *testing.T) {
	var buf bytes.Buffer
	w := NewSSEWriter(bufio.NewWriter(&buf))

	if err := w.Write("Hi"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(" there"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Done(); err != nil {
		t.Fatalf("Done: %v", err)
	}

	want := "data: {\"content\":\"Hi\"}\n\n" +
		"data: {\"content\":\" there\"}\n\n" +
		"data: [DONE]\n\n"
	if got := buf.String(); got != want {
		t.Errorf("framing mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestSSEErrorFrame(t *testing.T) {
	var buf bytes.Buffer
	w := NewSSEWriter(bufio.NewWriter(&buf))

	if err := w.WriteError("backend unreachable"); err != nil {
		t.Fatalf("WriteError: %v", err)
	}

	want := "data: {\"error\":\"backend unreachable\"}\n\n"
	if got := buf.String(); got != want {
		t.Errorf("error frame = %q, want %q", got, want)
	}
}

func TestSSEWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w := NewSSEWriter(bufio.NewWriter(&buf))

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Write("late"); err == nil {
		t.Error("expected error writing after close")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestAccumulator(t *testing.T) {
	var acc Accumulator
	if !acc.Empty() {
		t.Error("new accumulator should be empty")
	}
	acc.Add("Hi")
	acc.Add(" there")
	if acc.String() != "Hi there" {
		t.Errorf("accumulated %q, want %q", acc.String(), "Hi there")
	}
	if acc.Empty() {
		t.Error("accumulator with content reported empty")
	}
}
