package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/genai"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/platform/logger"
	"timescape_backend/platform/validator"
)

type fakeGenerator struct {
	raw        []byte
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (f *fakeGenerator) GenerateStructured(_ context.Context, system, prompt string, _ *genai.Schema) ([]byte, error) {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

func testItem(name, description string, category domain.Category) domain.SuggestionItem {
	return domain.SuggestionItem{
		Suggestion: name,
		Place: domain.PlaceRecord{
			Name:         name,
			Location:     "Rome, Italy",
			PlaceID:      "place-" + name,
			LocationType: domain.LocationArea,
			Latitude:     41.9,
			Longitude:    12.5,
			ZoomLevel:    11,
			Description:  description,
			Category:     category,
			Details: []domain.PlaceDetail{
				{Label: "Country", Icon: domain.IconGlobe, Value: "Italy"},
				{Label: "Era", Icon: domain.IconCalendar, Value: "Antiquity"},
			},
		},
	}
}

func payloadJSON(t *testing.T, items ...domain.SuggestionItem) []byte {
	t.Helper()
	raw, err := json.Marshal(suggestionsPayload{Suggestions: items})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func newTestEngine(gen *fakeGenerator) *Engine {
	return NewEngine(gen, validator.New(), domain.NewClassifier(), 3, 7, logger.New("development"))
}

func TestSuggestRepairsMissingCategory(t *testing.T) {
	gen := &fakeGenerator{raw: payloadJSON(t,
		testItem("Roman Forum", "Roman ruins at the center of the ancient city", ""),
		testItem("Gran Paradiso", "Glacier valleys in the Alps", domain.CategoryNature),
	)}
	engine := newTestEngine(gen)

	batch, err := engine.Suggest(context.Background(), "roman forum")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 items, got %d", len(batch))
	}
	if batch[0].Place.Category != domain.CategoryAncient {
		t.Fatalf("missing category should be derived, got %q", batch[0].Place.Category)
	}
	if batch[1].Place.Category != domain.CategoryNature {
		t.Fatalf("provided category should be preserved, got %q", batch[1].Place.Category)
	}
	if !strings.Contains(gen.lastSystem, "placeId") {
		t.Fatal("system instructions were not forwarded to the backend")
	}
	if gen.lastPrompt != "roman forum" {
		t.Fatalf("unexpected prompt: %q", gen.lastPrompt)
	}
}

func TestSuggestBlankQuerySkipsBackend(t *testing.T) {
	gen := &fakeGenerator{}
	engine := newTestEngine(gen)

	batch, err := engine.Suggest(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(batch) != 0 {
		t.Fatalf("expected empty batch, got %d items", len(batch))
	}
	if gen.calls != 0 {
		t.Fatalf("backend must not be called for blank text, got %d calls", gen.calls)
	}
}

func TestSuggestClampsOversizedBatch(t *testing.T) {
	items := make([]domain.SuggestionItem, 9)
	for i := range items {
		items[i] = testItem(fmt.Sprintf("Place %d", i), "Roman ruins", "")
	}
	gen := &fakeGenerator{raw: payloadJSON(t, items...)}
	engine := newTestEngine(gen)

	batch, err := engine.Suggest(context.Background(), "rome")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(batch) != 7 {
		t.Fatalf("expected batch clamped to 7, got %d", len(batch))
	}
	// Ranking order survives the clamp.
	if batch[0].Suggestion != "Place 0" || batch[6].Suggestion != "Place 6" {
		t.Fatalf("batch order changed: first %q last %q", batch[0].Suggestion, batch[6].Suggestion)
	}
}

func TestSuggestMalformedResponse(t *testing.T) {
	gen := &fakeGenerator{raw: []byte(`{"suggestions": [{`)}
	engine := newTestEngine(gen)

	if _, err := engine.Suggest(context.Background(), "rome"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestSuggestRejectsInvalidRecord(t *testing.T) {
	item := testItem("Forum", "Roman ruins", "")
	item.Place.Details = item.Place.Details[1:] // drop the globe detail
	gen := &fakeGenerator{raw: payloadJSON(t, item)}
	engine := newTestEngine(gen)

	_, err := engine.Suggest(context.Background(), "rome")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "malformed suggestion response") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSuggestBackendErrorSurfaces(t *testing.T) {
	backendErr := errors.New("backend unavailable")
	gen := &fakeGenerator{err: backendErr}
	engine := newTestEngine(gen)

	_, err := engine.Suggest(context.Background(), "rome")
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}
