package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/internal/discovery/transport"
	"timescape_backend/platform/logger"
	"timescape_backend/platform/validator"
)

type stubSuggester struct {
	batch domain.SuggestionBatch
	err   error
	calls int
}

func (s *stubSuggester) Suggest(context.Context, string) (domain.SuggestionBatch, error) {
	s.calls++
	return s.batch, s.err
}

func newTestRouter(engine *stubSuggester) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(engine, validator.New(), logger.New("development"))
	r := gin.New()
	r.POST("/suggestions", h.Suggest)
	return r
}

func postSuggestions(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/suggestions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSuggestReturnsBatch(t *testing.T) {
	engine := &stubSuggester{batch: domain.SuggestionBatch{{Suggestion: "Roman Forum at dawn"}}}
	r := newTestRouter(engine)

	w := postSuggestions(r, `{"query":"roman forum"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp transport.SuggestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Suggestions) != 1 || resp.Suggestions[0].Suggestion != "Roman Forum at dawn" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSuggestBlankQueryShortCircuits(t *testing.T) {
	engine := &stubSuggester{}
	r := newTestRouter(engine)

	w := postSuggestions(r, `{"query":"   "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if engine.calls != 0 {
		t.Fatalf("blank query must not reach the engine, got %d calls", engine.calls)
	}
	if !strings.Contains(w.Body.String(), `"suggestions":[]`) {
		t.Fatalf("expected empty suggestions array: %s", w.Body.String())
	}
}

func TestSuggestBackendFailureMapsToBadGateway(t *testing.T) {
	engine := &stubSuggester{err: errors.New("quota exceeded")}
	r := newTestRouter(engine)

	w := postSuggestions(r, `{"query":"atlantis"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "quota exceeded") {
		t.Fatalf("raw backend error must not surface: %s", w.Body.String())
	}
}

func TestSuggestRejectsMalformedBody(t *testing.T) {
	engine := &stubSuggester{}
	r := newTestRouter(engine)

	w := postSuggestions(r, `{"query":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
