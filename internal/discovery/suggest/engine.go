package suggest

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/platform/logger"
	"timescape_backend/platform/validator"
)

// Suggester produces a suggestion batch for one query. Implementations do
// not retry; a single failed call surfaces as an error.
type Suggester interface {
	Suggest(ctx context.Context, query string) (domain.SuggestionBatch, error)
}

// structuredGenerator is the slice of the Gemini client the direct engine
// needs. platform/ai/gemini.Client satisfies it.
type structuredGenerator interface {
	GenerateStructured(ctx context.Context, system, prompt string, schema *genai.Schema) ([]byte, error)
}

// Engine is the direct structured-output engine: one schema-constrained
// Gemini call per query.
type Engine struct {
	generator  structuredGenerator
	val        *validator.Validator
	classifier *domain.Classifier
	minItems   int
	maxItems   int
	log        *logger.Logger
}

// NewEngine creates the direct engine.
func NewEngine(generator structuredGenerator, val *validator.Validator, classifier *domain.Classifier, minItems, maxItems int, log *logger.Logger) *Engine {
	return &Engine{
		generator:  generator,
		val:        val,
		classifier: classifier,
		minItems:   minItems,
		maxItems:   maxItems,
		log:        log,
	}
}

// Suggest fetches, parses, repairs and validates one batch.
func (e *Engine) Suggest(ctx context.Context, query string) (domain.SuggestionBatch, error) {
	req, ok := BuildRequest(query, e.minItems, e.maxItems)
	if !ok {
		return domain.SuggestionBatch{}, nil
	}

	raw, err := e.generator.GenerateStructured(ctx, req.Instructions, req.Query, req.Schema)
	if err != nil {
		return nil, fmt.Errorf("suggestion fetch for %q: %w", req.Query, err)
	}

	var payload suggestionsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("malformed suggestion response: %w", err)
	}

	return finishBatch(payload.Suggestions, e.classifier, e.val, e.maxItems)
}

// finishBatch runs the category repair pass, validates the records and
// clamps the batch to the configured maximum. Shared by both engines.
func finishBatch(items []domain.SuggestionItem, classifier *domain.Classifier, val *validator.Validator, maxItems int) (domain.SuggestionBatch, error) {
	batch := domain.SuggestionBatch(items)
	if len(batch) > maxItems {
		batch = batch[:maxItems]
	}

	classifier.Repair(batch)

	if err := batch.Validate(val); err != nil {
		return nil, fmt.Errorf("malformed suggestion response: %w", err)
	}

	return batch, nil
}
