package scheduler_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-forge/core/generator"
	"asset-forge/core/metrics"
	"asset-forge/core/models"
	"asset-forge/core/postprocess"
	"asset-forge/core/scheduler"
	"asset-forge/storage"
)

func newTestScheduler(t *testing.T) (*scheduler.Scheduler, *storage.ArtifactStore) {
	t.Helper()
	logger := zap.NewNop()
	store, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	gen := generator.NewGenerator(
		generator.NewProceduralBackend(),
		store,
		postprocess.NewPostProcessor(logger),
		metrics.NewEngine(),
		metrics.DefaultRules(),
		logger,
	)
	return scheduler.NewScheduler(gen, nil, logger, 10*time.Millisecond), store
}

func waitForTerminal(t *testing.T, sched *scheduler.Scheduler, jobID string) models.StatusView {
	t.Helper()
	var view models.StatusView
	require.Eventually(t, func() bool {
		v, err := sched.Status(jobID)
		if err != nil {
			return false
		}
		view = v
		return v.Status.Terminal()
	}, 10*time.Second, 5*time.Millisecond)
	return view
}

func TestSubmitAndComplete(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	id := sched.Submit("a small cube", models.DefaultParameters())
	require.NotEmpty(t, id)

	view := waitForTerminal(t, sched, id)
	assert.Equal(t, models.JobStatusCompleted, view.Status)
	require.NotNil(t, view.Bundle)
	assert.Equal(t, id, view.Bundle.JobID)
	assert.Equal(t, "main.glb", view.Bundle.Files.Main)
	assert.Len(t, view.Bundle.Files.LODs, 2)
	require.NotNil(t, view.StartedAt)
	require.NotNil(t, view.CompletedAt)
	assert.False(t, view.CompletedAt.Before(*view.StartedAt))

	// artifacts landed on disk
	for _, name := range append([]string{view.Bundle.Files.Main, storage.MetadataFile}, view.Bundle.Files.LODs...) {
		_, err := os.Stat(store.ArtifactPath(id, name))
		assert.NoError(t, err, name)
	}
}

func TestJobsRunInSubmissionOrder(t *testing.T) {
	sched, _ := newTestScheduler(t)

	// queue everything before the worker starts so order is unambiguous
	first := sched.Submit("sphere one", models.DefaultParameters())
	second := sched.Submit("sphere two", models.DefaultParameters())
	third := sched.Submit("sphere three", models.DefaultParameters())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	a := waitForTerminal(t, sched, first)
	b := waitForTerminal(t, sched, second)
	c := waitForTerminal(t, sched, third)

	require.NotNil(t, a.StartedAt)
	require.NotNil(t, b.StartedAt)
	require.NotNil(t, c.StartedAt)
	assert.False(t, b.StartedAt.Before(*a.CompletedAt))
	assert.False(t, c.StartedAt.Before(*b.CompletedAt))
}

func TestFailedJobKeepsError(t *testing.T) {
	sched, _ := newTestScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	id := sched.Submit("broken", models.Parameters{Seed: 1, Steps: 0, GuidanceScale: 7.5})

	view := waitForTerminal(t, sched, id)
	assert.Equal(t, models.JobStatusFailed, view.Status)
	assert.Contains(t, view.Error, "steps")
	assert.Nil(t, view.Bundle)
	require.NotNil(t, view.CompletedAt)
}

func TestStatusUnknownJob(t *testing.T) {
	sched, _ := newTestScheduler(t)

	_, err := sched.Status("no-such-job")
	assert.ErrorIs(t, err, scheduler.ErrJobNotFound)
}

func TestListSnapshotsAllJobs(t *testing.T) {
	sched, _ := newTestScheduler(t)

	a := sched.Submit("cube", models.DefaultParameters())
	b := sched.Submit("sphere", models.DefaultParameters())

	views := sched.List()
	require.Len(t, views, 2)
	assert.Equal(t, models.JobStatusPending, views[a].Status)
	assert.Equal(t, models.JobStatusPending, views[b].Status)
}

func TestStopEndsWorker(t *testing.T) {
	sched, _ := newTestScheduler(t)

	done := make(chan struct{})
	go func() {
		sched.Start(context.Background())
		close(done)
	}()

	sched.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	// Stop is idempotent
	sched.Stop()
}

func TestQueueIsFIFO(t *testing.T) {
	q := scheduler.NewJobQueue()
	assert.Nil(t, q.PopJob())

	jobs := []*models.Job{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	for _, j := range jobs {
		q.Enqueue(j)
	}
	assert.Equal(t, 3, q.Size())

	for _, j := range jobs {
		popped := q.PopJob()
		require.NotNil(t, popped)
		assert.Equal(t, j.ID, popped.ID)
	}
	assert.Nil(t, q.PopJob())
	assert.Equal(t, 0, q.Size())
}
