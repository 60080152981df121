package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
)

// SSE frame payloads, line-oriented with a blank-line delimiter:
//
//	data: {"content": "<token>"}
//	data: {"error": "<message>"}
//	data: [DONE]
//
// The [DONE] sentinel marks normal completion; a dropped connection without
// it signals a client-initiated abort.

type contentFrame struct {
	Content string `json:"content"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// SSEWriter adapts a buffered response writer into the Writer contract.
// Every frame is flushed immediately so tokens reach the client as they are
// produced; a flush failure means the client disconnected.
type SSEWriter struct {
	w      *bufio.Writer
	closed bool
}

func NewSSEWriter(w *bufio.Writer) *SSEWriter {
	return &SSEWriter{w: w}
}

func (s *SSEWriter) writeFrame(payload []byte) error {
	if s.closed {
		return fmt.Errorf("sse writer closed")
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *SSEWriter) Write(token string) error {
	payload, err := json.Marshal(contentFrame{Content: token})
	if err != nil {
		return err
	}
	return s.writeFrame(payload)
}

func (s *SSEWriter) WriteError(message string) error {
	payload, err := json.Marshal(errorFrame{Error: message})
	if err != nil {
		return err
	}
	return s.writeFrame(payload)
}

func (s *SSEWriter) Done() error {
	return s.writeFrame([]byte("[DONE]"))
}

func (s *SSEWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.w.Flush()
}
