package chi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/searchlight-ai/searchlight/internal/domain"
)

// sseEmitter frames stream events as server-sent events: one
// "data: <json>\n\n" line per event, flushed immediately, terminated by
// "data: [DONE]\n\n". Events go out in production order, never batched.
// A write failure means the caller is gone; it propagates to the pipeline
// as a cancellation signal.
type sseEmitter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newSSEEmitter(w http.ResponseWriter) *sseEmitter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &sseEmitter{w: w, rc: http.NewResponseController(w)}
}

// Emit writes one event frame and flushes it.
func (e *sseEmitter) Emit(ev domain.StreamEvent) error {
	if ev.Kind == domain.EventDone {
		if _, err := io.WriteString(e.w, "data: [DONE]\n\n"); err != nil {
			return fmt.Errorf("write terminal frame: %w", err)
		}
		return e.flush()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event frame: %w", err)
	}
	return e.flush()
}

func (e *sseEmitter) flush() error {
	if err := e.rc.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
