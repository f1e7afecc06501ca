package session

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/internal/discovery/suggest"
	"timescape_backend/platform/logger"
)

type stubSuggester struct{}

func (stubSuggester) Suggest(_ context.Context, query string) (domain.SuggestionBatch, error) {
	return domain.SuggestionBatch{{Suggestion: query}}, nil
}

// newTestConn builds a session without a live socket; close() tolerates the
// missing websocket and the pumps are simply not started.
func newTestConn(t *testing.T) *conn {
	t.Helper()
	log := logger.New("development")
	g := NewGateway(stubSuggester{}, 5*time.Millisecond, func(*http.Request) bool { return true }, log)
	cn := &conn{
		id:      uuid.New(),
		send:    make(chan []byte, sendBuffer),
		log:     log,
		gateway: g,
	}
	cn.controller = suggest.NewController(stubSuggester{}, suggest.NewState(), 5*time.Millisecond, cn.pushRender, log)
	g.addConn(cn)
	return cn
}

func settle(t *testing.T, cn *conn, text string) {
	t.Helper()
	cn.handleFrame(InboundFrame{Type: FrameQuery, Text: text})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cn.controller.State().Snapshot().Phase == suggest.PhaseSettled {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("session never settled")
}

func TestSelectAnswersWithPlaceFrame(t *testing.T) {
	cn := newTestConn(t)
	settle(t, cn, "Ur")

	// Drain the render frames queued while settling.
	for len(cn.send) > 0 {
		<-cn.send
	}

	cn.handleFrame(InboundFrame{Type: FrameSelect, Index: 0})

	select {
	case data := <-cn.send:
		var frame PlaceFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("unmarshal place frame: %v", err)
		}
		if frame.Type != FramePlace {
			t.Fatalf("expected place frame, got %+v", frame)
		}
	default:
		t.Fatal("select did not produce a place frame")
	}
}

func TestFramesAfterCloseAreDropped(t *testing.T) {
	cn := newTestConn(t)
	settle(t, cn, "Ur")

	cn.close()

	// A frame the read loop pulled off the wire just before teardown must be
	// swallowed, not crash the session.
	cn.handleFrame(InboundFrame{Type: FrameSelect, Index: 0})
	cn.pushRender(suggest.Snapshot{Phase: suggest.PhaseIdle})

	// Teardown is idempotent.
	cn.close()
}
