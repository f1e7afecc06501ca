// Package discovery provides the place-discovery bounded context module.
package discovery

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"timescape_backend/internal/config"
	"timescape_backend/internal/discovery/domain"
	"timescape_backend/internal/discovery/handler"
	"timescape_backend/internal/discovery/session"
	"timescape_backend/internal/discovery/suggest"
	"timescape_backend/platform/ai/gemini"
	"timescape_backend/platform/logger"
	"timescape_backend/platform/validator"
)

// Module is the discovery bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	gateway *session.Gateway
	engine  suggest.Suggester
}

// NewModule wires the suggestion engine selected by config, the REST handler
// and the websocket gateway.
func NewModule(cfg *config.Config, client *gemini.Client, val *validator.Validator, log *logger.Logger) (*Module, error) {
	classifier := domain.NewClassifier()
	log.Info("discovery module starting", "engine", cfg.SuggestEngine, "rules", classifier.String())

	var engine suggest.Suggester
	switch cfg.SuggestEngine {
	case config.EngineAgent:
		agentEngine, err := suggest.NewAgentEngine(gemini.NewModel(client), val, classifier, cfg.MinSuggestions, cfg.MaxSuggestions, log)
		if err != nil {
			return nil, fmt.Errorf("failed to build agent suggestion engine: %w", err)
		}
		engine = agentEngine
	case config.EngineDirect:
		engine = suggest.NewEngine(client, val, classifier, cfg.MinSuggestions, cfg.MaxSuggestions, log)
	default:
		return nil, fmt.Errorf("unknown suggestion engine %q", cfg.SuggestEngine)
	}

	checkOrigin := originChecker(cfg)
	gateway := session.NewGateway(engine, cfg.DebounceDelay, checkOrigin, log)

	return &Module{
		handler: handler.New(engine, val, log),
		gateway: gateway,
		engine:  engine,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "discovery"
}

// Engine returns the suggestion engine for external use.
func (m *Module) Engine() suggest.Suggester {
	return m.engine
}

// RegisterRoutes mounts discovery routes on the v1 group.
func (m *Module) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/suggestions", m.handler.Suggest)
	v1.GET("/suggestions/stream", m.gateway.Handler())
}

// Close shuts down live suggestion sessions.
func (m *Module) Close() {
	m.gateway.Close()
}

func originChecker(cfg *config.Config) func(*http.Request) bool {
	if cfg.CORSAllowAll {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(cfg.CORSOrigins))
	for _, origin := range cfg.CORSOrigins {
		allowed[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
