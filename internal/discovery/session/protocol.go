// Package session exposes the suggestion pipeline over a websocket: one
// debounce/cancellation controller per connection, driven by UI events.
package session

import (
	"encoding/json"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/internal/discovery/suggest"
)

// Inbound frame types (UI -> server).
const (
	FrameQuery  = "query"  // keystroke: text changed
	FrameSubmit = "submit" // Enter pressed
	FrameClear  = "clear"  // input emptied
	FrameSelect = "select" // suggestion picked
)

// Outbound frame types (server -> UI).
const (
	FrameRender = "render"
	FramePlace  = "place"
)

// InboundFrame is one UI event.
type InboundFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Index int    `json:"index,omitempty"`
}

// RenderFrame carries one presentation snapshot to the UI.
type RenderFrame struct {
	Type        string                  `json:"type"`
	Phase       suggest.Phase           `json:"phase"`
	Suggestions []domain.SuggestionItem `json:"suggestions"`
	Error       string                  `json:"error,omitempty"`
}

// PlaceFrame answers a select event with the resolved place.
type PlaceFrame struct {
	Type  string             `json:"type"`
	Place domain.PlaceRecord `json:"place"`
}

// encodeRender marshals a snapshot; the suggestions array is always present
// so the UI can clear its list without special-casing null.
func encodeRender(snap suggest.Snapshot) ([]byte, error) {
	suggestions := snap.Batch
	if suggestions == nil {
		suggestions = domain.SuggestionBatch{}
	}
	return json.Marshal(RenderFrame{
		Type:        FrameRender,
		Phase:       snap.Phase,
		Suggestions: suggestions,
		Error:       snap.Err,
	})
}

func encodePlace(place domain.PlaceRecord) ([]byte, error) {
	return json.Marshal(PlaceFrame{Type: FramePlace, Place: place})
}

func decodeInbound(data []byte) (InboundFrame, error) {
	var frame InboundFrame
	err := json.Unmarshal(data, &frame)
	return frame, err
}
