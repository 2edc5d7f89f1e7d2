// Package submission runs the request lifecycle of the issue form:
// idle, pending, then success or failure, with at most one request in
// flight at a time.
package submission

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
	"github.com/sergeknystautas/commitdetective/internal/client"
	"github.com/sergeknystautas/commitdetective/internal/view"
)

// GenericFailureMessage is shown when the service gives no usable detail.
const GenericFailureMessage = "An error occurred while analyzing commits"

// Analyzer performs the outbound analyze call.
type Analyzer interface {
	Analyze(ctx context.Context, req contracts.AnalyzeRequest) ([]contracts.CommitCandidate, error)
}

// Controller owns the submission state. It is safe for concurrent use.
type Controller struct {
	analyzer Analyzer
	logger   *log.Logger

	// notifyMu serializes transitions with their listener calls so listeners
	// see states in order. It is always taken before mu.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	done      chan struct{}
	listeners []func(State)
}

// NewController creates an idle controller. A nil logger discards output.
func NewController(analyzer Analyzer, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		analyzer: analyzer,
		logger:   logger,
		state:    State{Status: StatusIdle},
	}
}

// OnChange registers fn to be called with every new state. Listeners may
// read State but must not call Submit.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit starts the outbound call for req and returns true. It returns false
// without doing anything while another request is pending. Submit does not
// wait for the response; the outcome is published through OnChange and Wait.
func (c *Controller) Submit(ctx context.Context, req contracts.AnalyzeRequest) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.state.Status == StatusPending {
		c.mu.Unlock()
		c.logger.Debug("submit ignored, request in flight")
		return false
	}
	pending := State{Status: StatusPending, SaveOnly: req.SaveOnly}
	done := make(chan struct{})
	c.state = pending
	c.done = done
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	c.logger.Debug("submitting", "files", len(req.SourceFiles), "save_only", req.SaveOnly)
	publish(listeners, pending)

	go c.run(ctx, req, done)
	return true
}

// Wait blocks until no request is pending and returns the settled state.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return State{}, ctx.Err()
		}
	}
	return c.State(), nil
}

func (c *Controller) run(ctx context.Context, req contracts.AnalyzeRequest, done chan struct{}) {
	startTime := time.Now()
	candidates, err := c.analyzer.Analyze(ctx, req)

	var next State
	if err != nil {
		next = State{Status: StatusFailure, SaveOnly: req.SaveOnly, Message: extractMessage(err)}
		c.logger.Error("analysis failed", "elapsed", time.Since(startTime), "err", err)
	} else {
		if dups := view.DuplicateKeys(candidates); len(dups) > 0 {
			c.logger.Warn("response repeats commit hashes, keeping last", "hashes", dups)
		}
		next = State{Status: StatusSuccess, SaveOnly: req.SaveOnly, Rows: view.Project(candidates, req.SaveOnly)}
		c.logger.Info("analysis complete", "candidates", len(next.Rows), "elapsed", time.Since(startTime))
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.state = next
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	publish(listeners, next)
	close(done)
}

// snapshotListeners must be called with mu held.
func (c *Controller) snapshotListeners() []func(State) {
	return append([]func(State){}, c.listeners...)
}

func publish(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}

// extractMessage prefers the service-supplied detail.
func extractMessage(err error) string {
	var svcErr *client.ServiceError
	if errors.As(err, &svcErr) && svcErr.Detail != "" {
		return svcErr.Detail
	}
	return GenericFailureMessage
}
