package crontab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	calls int
	days  int
	err   error
}

func (f *fakePurger) Purge(ctx context.Context, retentionDays int) (int64, error) {
	f.calls++
	f.days = retentionDays
	return 3, f.err
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep() int {
	f.calls++
	return 1
}

func TestMaintainSweepsAndPurges(t *testing.T) {
	purger := &fakePurger{}
	sweeper := &fakeSweeper{}
	c := NewCrontab(purger, sweeper, Config{RetentionDays: 30}, zerolog.Nop())

	c.maintain(context.Background())
	assert.Equal(t, 1, sweeper.calls)
	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, 30, purger.days)
}

func TestMaintainSkipsPurgeWithoutRetention(t *testing.T) {
	purger := &fakePurger{}
	c := NewCrontab(purger, nil, Config{}, zerolog.Nop())

	c.maintain(context.Background())
	assert.Zero(t, purger.calls)
}

func TestMaintainToleratesPurgeFailure(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	c := NewCrontab(purger, &fakeSweeper{}, Config{RetentionDays: 1}, zerolog.Nop())
	assert.NotPanics(t, func() { c.maintain(context.Background()) })
}

func TestRunRejectsBadSchedule(t *testing.T) {
	c := NewCrontab(nil, nil, Config{Schedule: "not a cron"}, zerolog.Nop())
	err := c.Run(context.Background())
	require.Error(t, err)
}

func TestRunStopsWithContext(t *testing.T) {
	c := NewCrontab(nil, nil, Config{}, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, c.Run(ctx))
}
