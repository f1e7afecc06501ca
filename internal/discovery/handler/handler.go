// Package handler exposes the discovery module's REST endpoints.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/internal/discovery/suggest"
	"timescape_backend/internal/discovery/transport"
	"timescape_backend/internal/http/response"
	"timescape_backend/platform/apperr"
	"timescape_backend/platform/logger"
	"timescape_backend/platform/validator"
)

// Handler serves one-shot suggestion fetches for non-interactive clients.
// The interactive debounced flow lives in the session gateway.
type Handler struct {
	engine suggest.Suggester
	val    *validator.Validator
	log    *logger.Logger
}

// New creates the handler.
func New(engine suggest.Suggester, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{engine: engine, val: val, log: log}
}

// Suggest handles POST /suggestions.
func (h *Handler) Suggest(c *gin.Context) {
	var req transport.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", nil)
		return
	}

	// Whitespace-only text short-circuits: empty batch, no backend call.
	if strings.TrimSpace(req.Query) == "" {
		response.OK(c, transport.SuggestResponse{Suggestions: []domain.SuggestionItem{}})
		return
	}

	batch, err := h.engine.Suggest(c.Request.Context(), req.Query)
	if err != nil {
		h.log.UpstreamError("suggest", err)
		appErr := apperr.Wrap(apperr.KindUpstream, "suggestion backend failed", err)
		var typed *apperr.Error
		if errors.As(err, &typed) {
			appErr = typed
		}
		response.Error(c, appErr.HTTPStatus(), appErr.Message, nil)
		return
	}

	if batch == nil {
		batch = domain.SuggestionBatch{}
	}
	response.OK(c, transport.SuggestResponse{Suggestions: batch})
}
