package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/ecoscope/internal/analysis"
	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/workflow"
)

var london = &geo.Coordinate{Latitude: 51.505, Longitude: -0.09}

func newTestRegistry(t *testing.T, initial, full time.Duration) *Registry {
	t.Helper()
	r := NewRegistry(analysis.NewSynthetic(initial, full), time.Minute)
	t.Cleanup(r.Close)
	return r
}

func waitReady(t *testing.T, s *Session) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.CanContinue && snap.Initial != nil
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSessionFullFlow(t *testing.T) {
	t.Parallel()
	s := newTestRegistry(t, 5*time.Millisecond, 10*time.Millisecond).Create()

	snap, err := s.Submit("Rainfall trend", london)
	require.NoError(t, err)
	require.Equal(t, workflow.StagePending, snap.Stage)
	require.NotNil(t, snap.Submission)

	_, err = s.Continue()
	require.ErrorIs(t, err, ErrNotReady)

	waitReady(t, s)
	snap, err = s.Continue()
	require.NoError(t, err)
	require.Equal(t, workflow.StageAnalysis, snap.Stage)
	require.Equal(t, workflow.FacetChart, snap.Facet)

	snap, err = s.Select(workflow.FacetSuggestions)
	require.NoError(t, err)
	require.Equal(t, workflow.FacetSuggestions, snap.Facet)

	_, err = s.Select(workflow.Facet("map"))
	require.ErrorIs(t, err, ErrUnknownFacet)

	snap, err = s.Back()
	require.NoError(t, err)
	require.Equal(t, workflow.StagePending, snap.Stage)
	require.NotNil(t, snap.Full)

	_, err = s.Back()
	require.ErrorIs(t, err, workflow.ErrStage)
}

func TestSessionSubmitValidation(t *testing.T) {
	t.Parallel()
	s := newTestRegistry(t, time.Hour, time.Hour).Create()

	snap, err := s.Submit("   ", london)
	require.ErrorIs(t, err, workflow.ErrInvalidSubmission)
	require.Equal(t, workflow.StageQuery, snap.Stage)

	_, err = s.Submit("Rainfall trend", nil)
	require.ErrorIs(t, err, workflow.ErrInvalidSubmission)

	_, err = s.Continue()
	require.ErrorIs(t, err, workflow.ErrStage)

	_, err = s.Select(workflow.FacetSummary)
	require.ErrorIs(t, err, workflow.ErrStage)
}

func TestSessionRestartDropsOldRun(t *testing.T) {
	t.Parallel()
	s := newTestRegistry(t, 20*time.Millisecond, 20*time.Millisecond).Create()

	first, err := s.Submit("Rainfall trend", london)
	require.NoError(t, err)
	snap := s.Restart()
	require.Equal(t, workflow.StageQuery, snap.Stage)
	require.Nil(t, snap.Submission)

	second, err := s.Submit("Soil moisture levels", london)
	require.NoError(t, err)
	require.NotEqual(t, first.Submission.ID, second.Submission.ID)

	waitReady(t, s)
	snap = s.Snapshot()
	require.Equal(t, second.Submission.ID, snap.Submission.ID)
	require.Equal(t, "Soil moisture levels", snap.Submission.Text)
}
