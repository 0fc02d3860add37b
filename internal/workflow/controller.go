// Package workflow sequences the query, pending and analysis stages of one
// environmental query and owns the results that arrive in between.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jask/ecoscope/internal/geo"
)

// ErrStage is returned when an action is not legal in the current stage.
var ErrStage = errors.New("action not allowed in current stage")

// Controller is the stage machine for one client. It is not safe for
// concurrent use; drive it from a single loop.
//
//	Query --submit--> Pending --continue (full result present)--> Analysis
//	                  Pending <--back-------------------------------'
//	any --restart--> Query
type Controller struct {
	provider   Provider
	stage      Stage
	submission *Submission
	initial    *InitialResult
	full       *FullResult
	selector   Selector
	cancel     context.CancelFunc
}

// NewController starts in the query stage with no results.
func NewController(p Provider) *Controller {
	return &Controller{provider: p, stage: StageQuery}
}

// Submit runs the submission gate and, on success, moves to Pending and
// starts the provider. The caller drains the returned channel into Apply.
// Rejected submissions leave the controller untouched.
func (c *Controller) Submit(ctx context.Context, text string, coord *geo.Coordinate) (Submission, <-chan Event, error) {
	if c.stage != StageQuery {
		return Submission{}, nil, fmt.Errorf("submit from %s: %w", c.stage, ErrStage)
	}
	sub, err := NewSubmission(text, coord)
	if err != nil {
		return Submission{}, nil, err
	}
	c.clearRun()
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.submission = &sub
	c.stage = StagePending
	return sub, c.provider.Start(runCtx, sub), nil
}

// Apply stores a result event. Events for any submission other than the
// current one are stale and dropped, as are repeats of an event already stored.
// Apply never changes the stage.
func (c *Controller) Apply(ev Event) bool {
	if ev == nil || c.submission == nil || ev.SubmissionID() != c.submission.ID {
		return false
	}
	switch e := ev.(type) {
	case InitialEvent:
		if c.initial != nil {
			return false
		}
		r := e.Result
		c.initial = &r
		return true
	case FullEvent:
		if c.full != nil || e.Result.Validate() != nil {
			return false
		}
		c.full = e.Result
		return true
	}
	return false
}

// CanContinue is the guard on Pending -> Analysis.
func (c *Controller) CanContinue() bool {
	return c.stage == StagePending && c.full != nil
}

// Continue enters Analysis with the chart focused. It is a no-op until the
// full result has arrived.
func (c *Controller) Continue() bool {
	if !c.CanContinue() {
		return false
	}
	c.stage = StageAnalysis
	c.selector.Reset()
	return true
}

// Back returns from Analysis to Pending keeping every result.
func (c *Controller) Back() bool {
	if c.stage != StageAnalysis {
		return false
	}
	c.stage = StagePending
	return true
}

// Restart abandons the current run and returns to Query. Events still in
// flight for the abandoned submission are dropped by Apply.
func (c *Controller) Restart() {
	c.clearRun()
	c.stage = StageQuery
}

// Select focuses a facet. Only meaningful in Analysis.
func (c *Controller) Select(f Facet) bool {
	if c.stage != StageAnalysis || !f.Valid() {
		return false
	}
	c.selector.Select(f)
	return true
}

func (c *Controller) Stage() Stage { return c.stage }

// Submission returns the current run's submission, or nil in Query.
func (c *Controller) Submission() *Submission { return c.submission }

func (c *Controller) Initial() *InitialResult { return c.initial }

// Full returns the stored analysis. Callers must treat it as read-only.
func (c *Controller) Full() *FullResult { return c.full }

func (c *Controller) Facet() Facet { return c.selector.Active() }

func (c *Controller) clearRun() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.submission = nil
	c.initial = nil
	c.full = nil
	c.selector.Reset()
}

// Snapshot is a copy of the controller state for rendering or JSON.
type Snapshot struct {
	Stage       Stage          `json:"stage"`
	Submission  *Submission    `json:"submission,omitempty"`
	Initial     *InitialResult `json:"initial,omitempty"`
	Full        *FullResult    `json:"full,omitempty"`
	Facet       Facet          `json:"facet,omitempty"`
	CanContinue bool           `json:"can_continue"`
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Stage:       c.stage,
		Submission:  c.submission,
		Initial:     c.initial,
		Full:        c.full,
		CanContinue: c.CanContinue(),
	}
	if c.stage == StageAnalysis {
		s.Facet = c.selector.Active()
	}
	return s
}
