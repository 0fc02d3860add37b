package analysis

import (
	"context"
	"time"

	"github.com/jask/ecoscope/internal/workflow"
)

const (
	DefaultInitialDelay = 2 * time.Second
	DefaultFullDelay    = 2 * time.Second
)

const referenceNarrative = "Initial analysis indicates significant environmental patterns in your selected region. " +
	"We've detected notable variations in key ecological indicators over the specified timeframe. " +
	"Our comprehensive analysis is processing additional parameters to provide you with detailed insights."

const referenceSummary = "Our analysis shows significant variations in environmental parameters over the past months. " +
	"The data indicates a positive trend in sustainability metrics, with notable improvements in air quality and biodiversity indicators."

// Synthetic is an offline provider with fixed content. It mimics a real
// backend's latency so the client stays honest about waiting: both delays are
// measured from Start, not chained.
type Synthetic struct {
	InitialDelay time.Duration
	FullDelay    time.Duration
}

// NewSynthetic returns a provider using the given delays; non-positive values
// fall back to the defaults.
func NewSynthetic(initial, full time.Duration) *Synthetic {
	if initial <= 0 {
		initial = DefaultInitialDelay
	}
	if full <= 0 {
		full = DefaultFullDelay
	}
	return &Synthetic{InitialDelay: initial, FullDelay: full}
}

func (s *Synthetic) Start(ctx context.Context, sub workflow.Submission) <-chan workflow.Event {
	out := make(chan workflow.Event, 2)
	initialTimer := time.NewTimer(s.InitialDelay)
	fullTimer := time.NewTimer(s.FullDelay)

	go func() {
		defer close(out)
		defer initialTimer.Stop()
		defer fullTimer.Stop()

		initialC, fullC := initialTimer.C, fullTimer.C
		for initialC != nil || fullC != nil {
			select {
			case <-ctx.Done():
				return
			case <-initialC:
				initialC = nil
				out <- workflow.InitialEvent{Submission: sub.ID, Result: Initial(sub)}
			case <-fullC:
				fullC = nil
				out <- workflow.FullEvent{Submission: sub.ID, Result: Full(sub)}
			}
		}
	}()
	return out
}

// Initial is the reference narrative.
func Initial(workflow.Submission) workflow.InitialResult {
	return workflow.InitialResult{Narrative: referenceNarrative}
}

// Full is the reference analysis. Each call returns a fresh value.
func Full(workflow.Submission) *workflow.FullResult {
	return &workflow.FullResult{
		Series: []workflow.Point{
			{Label: "Jan", Value: 400},
			{Label: "Feb", Value: 300},
			{Label: "Mar", Value: 600},
			{Label: "Apr", Value: 800},
		},
		Summary: referenceSummary,
		Suggestions: []string{
			"Implement water conservation measures during peak usage hours",
			"Consider expanding green spaces to improve air quality",
			"Monitor and reduce carbon emissions through alternative energy sources",
		},
	}
}
