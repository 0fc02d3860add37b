package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Point is one sample of the analysis time series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// InitialResult is the short narrative shown while the full analysis runs.
type InitialResult struct {
	Narrative string `json:"narrative"`
}

// FullResult is the complete analysis. Series order is temporal and preserved.
type FullResult struct {
	Series      []Point  `json:"series"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// Validate enforces a non-empty suggestion list.
func (r *FullResult) Validate() error {
	if r == nil {
		return errors.New("full result: nil")
	}
	if len(r.Suggestions) == 0 {
		return errors.New("full result: no suggestions")
	}
	return nil
}

// Event is a result arrival tagged with the submission that spawned it.
type Event interface {
	SubmissionID() uuid.UUID
}

// InitialEvent carries the narrative.
type InitialEvent struct {
	Submission uuid.UUID
	Result     InitialResult
}

func (e InitialEvent) SubmissionID() uuid.UUID { return e.Submission }

// FullEvent carries the full analysis.
type FullEvent struct {
	Submission uuid.UUID
	Result     *FullResult
}

func (e FullEvent) SubmissionID() uuid.UUID { return e.Submission }

// Provider produces results for a submission. The returned channel yields
// at most one InitialEvent and one FullEvent, in any order, then closes.
// Cancelling ctx abandons the run and closes the channel.
type Provider interface {
	Start(ctx context.Context, sub Submission) <-chan Event
}
