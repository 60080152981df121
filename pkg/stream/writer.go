// Package stream holds the transport-facing contract for token delivery.
// The orchestrator talks to a Writer and never inspects connection state;
// a closed client surfaces as a write error, which the orchestrator treats
// as cancellation.
package stream

import "strings"

// Writer delivers tokens and terminal frames to one client.
type Writer interface {
	// Write sends one token. A non-nil error means the client is gone and
	// no further writes will succeed.
	Write(token string) error

	// WriteError sends a terminal error frame.
	WriteError(message string) error

	// Done sends the normal-completion sentinel.
	Done() error

	// Close releases the writer. Idempotent.
	Close() error
}

// Accumulator collects every token emitted during a stream. It, not the wire
// traffic, is the source of truth persisted when the stream ends.
type Accumulator struct {
	sb strings.Builder
}

func (a *Accumulator) Add(token string) {
	a.sb.WriteString(token)
}

func (a *Accumulator) String() string {
	return a.sb.String()
}

func (a *Accumulator) Empty() bool {
	return a.sb.Len() == 0
}
