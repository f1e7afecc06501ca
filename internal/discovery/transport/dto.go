// Package transport holds the discovery module's HTTP request/response shapes.
package transport

import "timescape_backend/internal/discovery/domain"

// SuggestRequest is the one-shot suggestion request body.
type SuggestRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// SuggestResponse carries one suggestion batch.
type SuggestResponse struct {
	Suggestions []domain.SuggestionItem `json:"suggestions"`
}
