package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/ecoscope/internal/workflow"
)

func TestRegistryGet(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t, time.Hour, time.Hour)

	s := r.Create()
	got, err := r.Get(s.ID.String())
	require.NoError(t, err)
	require.Same(t, s, got)

	_, err = r.Get(uuid.NewString())
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get("not-a-uuid")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryPrune(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t, time.Hour, time.Hour)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	r.now = func() time.Time { return now }

	idle := r.Create()
	_, err := idle.Submit("Rainfall trend", london)
	require.NoError(t, err)

	now = base.Add(50 * time.Second)
	active := r.Create()
	require.Equal(t, 2, r.Len())

	require.Zero(t, r.Prune(base.Add(30*time.Second)))
	require.Equal(t, 1, r.Prune(base.Add(90*time.Second)))
	require.Equal(t, 1, r.Len())

	_, err = r.Get(idle.ID.String())
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(active.ID.String())
	require.NoError(t, err)
	require.Equal(t, workflow.StageQuery, idle.Snapshot().Stage, "pruned session run is cancelled")
}

func TestRegistryWithoutTTLKeepsSessions(t *testing.T) {
	t.Parallel()
	r := NewRegistry(nil, 0)
	defer r.Close()

	r.Create()
	require.Zero(t, r.Prune(time.Now().Add(24*time.Hour)))
	require.Equal(t, 1, r.Len())
}

func TestJanitorStartStop(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t, time.Hour, time.Hour)

	j := NewJanitor(r, 0)
	require.Equal(t, 1, j.minutes)
	require.NoError(t, j.Start())
	j.run()
	j.Stop()
}
