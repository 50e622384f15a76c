package domain

import (
	"encoding/json"
	"fmt"
)

// EventKind tags a stream event.
type EventKind string

// Stream event kinds, in the order they appear within a request.
const (
	EventSources EventKind = "sources"
	EventImages  EventKind = "images"
	EventAnswer  EventKind = "answer"
	EventRelated EventKind = "related"
	// EventDone is the terminal signal. No further events are valid after it.
	EventDone EventKind = "done"
)

// StreamEvent is one tagged unit of the incremental response. Exactly one
// payload field is meaningful for a given kind: Texts for sources, Images
// for images, Text for answer/related tokens. Done carries no payload.
type StreamEvent struct {
	Kind   EventKind
	Texts  []TextSource
	Images []ImageSource
	Text   string
}

// SourcesEvent wraps gathered text sources.
func SourcesEvent(texts []TextSource) StreamEvent {
	return StreamEvent{Kind: EventSources, Texts: texts}
}

// ImagesEvent wraps gathered image sources.
func ImagesEvent(images []ImageSource) StreamEvent {
	return StreamEvent{Kind: EventImages, Images: images}
}

// AnswerEvent wraps an incremental answer token.
func AnswerEvent(token string) StreamEvent {
	return StreamEvent{Kind: EventAnswer, Text: token}
}

// RelatedEvent wraps an incremental related-questions token.
func RelatedEvent(token string) StreamEvent {
	return StreamEvent{Kind: EventRelated, Text: token}
}

// DoneEvent returns the terminal signal.
func DoneEvent() StreamEvent {
	return StreamEvent{Kind: EventDone}
}

// MarshalJSON renders the single-field wire object for the event kind:
// {"sources":[...]}, {"images":[...]}, {"answer":"..."} or {"related":"..."}.
// The terminal event has no JSON form; transports frame it themselves.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventSources:
		texts := e.Texts
		if texts == nil {
			texts = []TextSource{}
		}
		return json.Marshal(map[string][]TextSource{"sources": texts})
	case EventImages:
		images := e.Images
		if images == nil {
			images = []ImageSource{}
		}
		return json.Marshal(map[string][]ImageSource{"images": images})
	case EventAnswer:
		return json.Marshal(map[string]string{"answer": e.Text})
	case EventRelated:
		return json.Marshal(map[string]string{"related": e.Text})
	default:
		return nil, fmt.Errorf("event kind %q has no JSON form", e.Kind)
	}
}
