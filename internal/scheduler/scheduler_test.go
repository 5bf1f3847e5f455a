package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRebuilder struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRebuilder) Rebuild(context.Context) (*domain.RebuildResult, error) {
	f.calls.Add(1)
	return &domain.RebuildResult{}, f.err
}

type fakeSweeper struct {
	calls atomic.Int32
}

func (f *fakeSweeper) Sweep(context.Context) (domain.SweepResult, error) {
	f.calls.Add(1)
	return domain.SweepResult{Scanned: 1, Retried: 1}, nil
}

func TestNew_RegistersJobs(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	s, err := New(Config{RebuildCron: "0 2 * * *", Location: manila, SweepInterval: 5 * time.Minute},
		&fakeRebuilder{}, &fakeSweeper{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())
}

func TestNew_DisabledJobs(t *testing.T) {
	s, err := New(Config{}, &fakeRebuilder{}, &fakeSweeper{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Jobs())
}

func TestNew_InvalidCron(t *testing.T) {
	_, err := New(Config{RebuildCron: "every day at two"}, &fakeRebuilder{}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rebuild schedule")
}

func TestJobs_RunAndSwallowErrors(t *testing.T) {
	rebuilder := &fakeRebuilder{err: errors.New("boom")}
	sweeper := &fakeSweeper{}
	s, err := New(Config{RebuildCron: "@daily", SweepInterval: time.Minute, JobTimeout: time.Second}, rebuilder, sweeper, nil)
	require.NoError(t, err)

	assert.NotPanics(t, s.runRebuild)
	assert.NotPanics(t, s.runSweep)
	assert.EqualValues(t, 1, rebuilder.calls.Load())
	assert.EqualValues(t, 1, sweeper.calls.Load())
}

func TestStartStop(t *testing.T) {
	s, err := New(Config{SweepInterval: time.Hour}, nil, &fakeSweeper{}, nil)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
