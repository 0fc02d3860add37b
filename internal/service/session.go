package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/workflow"
)

var (
	// ErrNotReady is returned by Continue while the full result is outstanding.
	ErrNotReady = errors.New("analysis not ready")
	// ErrUnknownFacet is returned for a facet outside chart, summary, suggestions.
	ErrUnknownFacet = errors.New("unknown facet")
)

// Session drives one Controller for a remote client. Every method and the
// event pump serialize on mu, so the controller sees one caller at a time.
type Session struct {
	ID uuid.UUID

	ctx  context.Context
	now  func() time.Time
	mu   sync.Mutex
	ctrl *workflow.Controller
	seen time.Time
}

func newSession(ctx context.Context, p workflow.Provider, now func() time.Time) *Session {
	return &Session{
		ID:   uuid.New(),
		ctx:  ctx,
		now:  now,
		ctrl: workflow.NewController(p),
		seen: now(),
	}
}

// Submit passes text and coordinate through the gate and starts the provider.
func (s *Session) Submit(text string, coord *geo.Coordinate) (workflow.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = s.now()

	sub, events, err := s.ctrl.Submit(s.ctx, text, coord)
	if err != nil {
		return s.ctrl.Snapshot(), err
	}
	go s.pump(sub.ID, events)
	return s.ctrl.Snapshot(), nil
}

// pump applies provider events until the channel closes. Events the
// controller refuses belong to a superseded run.
func (s *Session) pump(id uuid.UUID, events <-chan workflow.Event) {
	for ev := range events {
		s.mu.Lock()
		applied := s.ctrl.Apply(ev)
		s.mu.Unlock()
		if !applied {
			log.Printf("session %s: dropped %T for submission %s", s.ID, ev, id)
		}
	}
}

func (s *Session) Continue() (workflow.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = s.now()

	if s.ctrl.Continue() {
		return s.ctrl.Snapshot(), nil
	}
	if s.ctrl.Stage() == workflow.StagePending {
		return s.ctrl.Snapshot(), ErrNotReady
	}
	return s.ctrl.Snapshot(), fmt.Errorf("continue from %s: %w", s.ctrl.Stage(), workflow.ErrStage)
}

func (s *Session) Back() (workflow.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = s.now()

	if !s.ctrl.Back() {
		return s.ctrl.Snapshot(), fmt.Errorf("back from %s: %w", s.ctrl.Stage(), workflow.ErrStage)
	}
	return s.ctrl.Snapshot(), nil
}

func (s *Session) Restart() workflow.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = s.now()

	s.ctrl.Restart()
	return s.ctrl.Snapshot()
}

func (s *Session) Select(f workflow.Facet) (workflow.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = s.now()

	if !f.Valid() {
		return s.ctrl.Snapshot(), fmt.Errorf("%q: %w", f, ErrUnknownFacet)
	}
	if !s.ctrl.Select(f) {
		return s.ctrl.Snapshot(), fmt.Errorf("select from %s: %w", s.ctrl.Stage(), workflow.ErrStage)
	}
	return s.ctrl.Snapshot(), nil
}

func (s *Session) Snapshot() workflow.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = s.now()
	return s.ctrl.Snapshot()
}

func (s *Session) lastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

// close cancels any provider run still in flight.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Restart()
}
