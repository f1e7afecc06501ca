package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"timescape_backend/internal/discovery/domain"
	"timescape_backend/platform/logger"
)

// userFacingBackendError is what the UI shows when the generative backend
// fails; the underlying error goes to the log, never to the client.
const userFacingBackendError = "Suggestions are unavailable right now. Keep typing to retry."

// RenderFunc receives every presentation update, in order.
type RenderFunc func(Snapshot)

// Controller owns the lifecycle of the current pending query: it debounces
// keystrokes, dispatches at most one live backend call, and guarantees that
// only the most recent query's result ever reaches presentation state.
//
// All mutable fields are guarded by mu; the epoch counter tags every
// dispatched call so late arrivals from superseded queries are dropped.
type Controller struct {
	engine Suggester
	state  *State
	render RenderFunc
	delay  time.Duration
	log    *logger.Logger

	mu     sync.Mutex
	epoch  uint64
	text   string
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// NewController creates a controller in the idle phase. render may be nil.
func NewController(engine Suggester, state *State, delay time.Duration, render RenderFunc, log *logger.Logger) *Controller {
	return &Controller{
		engine: engine,
		state:  state,
		render: render,
		delay:  delay,
		log:    log,
	}
}

// SetQueryText handles a keystroke. Empty or whitespace-only text resets to
// idle; anything else supersedes the previous query and restarts the quiet
// period.
func (c *Controller) SetQueryText(text string) {
	trimmed := strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.supersedeLocked()

	if trimmed == "" {
		c.text = ""
		c.applyLocked(Snapshot{Phase: PhaseIdle})
		return
	}

	c.text = trimmed
	epoch := c.epoch
	c.applyLocked(Snapshot{Phase: PhasePending, Batch: c.state.Snapshot().Batch})
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(epoch)
	})
}

// Clear handles the input being emptied.
func (c *Controller) Clear() {
	c.SetQueryText("")
}

// Submit handles the Enter key: when a query is pending, the remaining quiet
// period is skipped and the dispatch happens immediately.
func (c *Controller) Submit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state.Snapshot().Phase != PhasePending {
		return
	}

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.dispatchLocked(c.epoch)
}

// Select resolves a suggestion from the latest settled batch.
func (c *Controller) Select(index int) (domain.SuggestionItem, error) {
	batch := c.state.Snapshot().Batch
	if index < 0 || index >= len(batch) {
		return domain.SuggestionItem{}, fmt.Errorf("suggestion index %d out of range (batch size %d)", index, len(batch))
	}
	return batch[index], nil
}

// State returns the presentation state holder.
func (c *Controller) State() *State {
	return c.state
}

// Close tears the controller down: the pending timer is cancelled and any
// in-flight call is marked stale so its arrival is a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.supersedeLocked()
}

// fire runs when the quiet period elapses. A stale epoch means a newer
// keystroke already superseded this timer.
func (c *Controller) fire(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch {
		return
	}
	c.timer = nil
	c.dispatchLocked(epoch)
}

// dispatchLocked issues the backend call for the current epoch. Callers hold mu.
func (c *Controller) dispatchLocked(epoch uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	text := c.text

	c.log.SuggestDispatch(text, epoch)
	c.applyLocked(Snapshot{Phase: PhaseLoading, Batch: c.state.Snapshot().Batch})

	go func() {
		batch, err := c.engine.Suggest(ctx, text)
		cancel()
		c.deliver(epoch, batch, err)
	}()
}

// deliver applies a backend result, unless the epoch has moved on.
func (c *Controller) deliver(epoch uint64, batch domain.SuggestionBatch, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || epoch != c.epoch {
		c.log.SuggestStale(epoch, c.epoch)
		return
	}
	c.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.UpstreamError("suggest", err)
		c.applyLocked(Snapshot{Phase: PhaseErrored, Batch: domain.SuggestionBatch{}, Err: userFacingBackendError})
		return
	}

	c.applyLocked(Snapshot{Phase: PhaseSettled, Batch: batch})
}

// supersedeLocked advances the epoch, stops the timer and voids the
// in-flight call. Callers hold mu.
func (c *Controller) supersedeLocked() {
	c.epoch++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// applyLocked updates presentation state and notifies the renderer.
// Callers hold mu, so renders arrive in transition order.
func (c *Controller) applyLocked(snap Snapshot) {
	c.state.apply(snap)
	if c.render != nil {
		c.render(snap)
	}
}
