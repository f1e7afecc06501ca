package suggest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
	"google.golang.org/genai"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/platform/logger"
	"timescape_backend/platform/validator"
)

// SaveSuggestionsInput is the structured input for the SaveSuggestions tool.
type SaveSuggestionsInput struct {
	Suggestions []domain.SuggestionItem `json:"suggestions"`
}

type SaveSuggestionsOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// saveSuggestionsDeps accumulates the batch the agent reports through the
// SaveSuggestions tool. One run at a time; AgentEngine serializes runs.
type saveSuggestionsDeps struct {
	mu    sync.RWMutex
	batch domain.SuggestionBatch
	saved bool
}

func (d *saveSuggestionsDeps) set(batch domain.SuggestionBatch) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batch = batch
	d.saved = true
}

func (d *saveSuggestionsDeps) get() (domain.SuggestionBatch, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.batch, d.saved
}

func (d *saveSuggestionsDeps) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batch = nil
	d.saved = false
}

// AgentEngine routes suggestion requests through an ADK agent that must call
// the SaveSuggestions tool exactly once with its results.
type AgentEngine struct {
	runner         *runner.Runner
	sessionService session.Service
	appName        string
	deps           *saveSuggestionsDeps
	val            *validator.Validator
	classifier     *domain.Classifier
	minItems       int
	maxItems       int
	log            *logger.Logger
	runMu          sync.Mutex
}

// NewAgentEngine builds the agent-routed engine on top of any ADK model.
func NewAgentEngine(mdl model.LLM, val *validator.Validator, classifier *domain.Classifier, minItems, maxItems int, log *logger.Logger) (*AgentEngine, error) {
	deps := &saveSuggestionsDeps{}

	saveTool, err := createSaveSuggestionsTool(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build SaveSuggestions tool: %w", err)
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "PlaceScout",
		Model:       mdl,
		Description: "History expert that turns free-form search text into structured historical place suggestions.",
		Instruction: buildInstructions(minItems, maxItems) + "\n\nWhen your list is complete, call SaveSuggestions exactly once with all suggestions. Do not answer in prose.",
		Tools:       []tool.Tool{saveTool},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        "place_scout",
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion runner: %w", err)
	}

	return &AgentEngine{
		runner:         r,
		sessionService: sessionService,
		appName:        "place_scout",
		deps:           deps,
		val:            val,
		classifier:     classifier,
		minItems:       minItems,
		maxItems:       maxItems,
		log:            log,
	}, nil
}

func createSaveSuggestionsTool(deps *saveSuggestionsDeps) (tool.Tool, error) {
	return functiontool.New(functiontool.Config{
		Name:        "SaveSuggestions",
		Description: "Saves the final list of place suggestions. Call this ONCE with the complete list; every place needs placeId, coordinates, zoom level and 2-4 details including the globe/country detail.",
	}, func(ctx tool.Context, input SaveSuggestionsInput) (SaveSuggestionsOutput, error) {
		if len(input.Suggestions) == 0 {
			return SaveSuggestionsOutput{Success: false, Message: "suggestions must not be empty"}, fmt.Errorf("empty suggestions")
		}
		deps.set(input.Suggestions)
		return SaveSuggestionsOutput{Success: true, Message: "Suggestions saved"}, nil
	})
}

// Suggest runs the agent for one query and returns what it saved.
func (e *AgentEngine) Suggest(ctx context.Context, query string) (domain.SuggestionBatch, error) {
	req, ok := BuildRequest(query, e.minItems, e.maxItems)
	if !ok {
		return domain.SuggestionBatch{}, nil
	}

	e.runMu.Lock()
	defer e.runMu.Unlock()
	e.deps.reset()

	userID := "scout-" + uuid.New().String()
	sessionID := uuid.New().String()

	_, err := e.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   e.appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scout session: %w", err)
	}
	defer func() {
		_ = e.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   e.appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: "Search text: " + req.Query}},
	}

	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}
	for _, err := range e.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return nil, fmt.Errorf("suggestion agent run failed: %w", err)
		}
	}

	items, saved := e.deps.get()
	if !saved {
		return nil, fmt.Errorf("suggestion agent did not call SaveSuggestions")
	}

	return finishBatch(items, e.classifier, e.val, e.maxItems)
}
