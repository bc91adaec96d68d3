// Package crontab schedules maintenance jobs.
package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const jobTimeout = 5 * time.Minute

// ChatLogPurger deletes chat logs past retention.
type ChatLogPurger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// SessionSweeper drops expired in-memory sessions.
type SessionSweeper interface {
	Sweep() int
}

// Config holds the schedule and retention.
type Config struct {
	Schedule      string
	RetentionDays int
}

type Crontab struct {
	ctab    *crontab.Crontab
	purger  ChatLogPurger
	sweeper SessionSweeper
	cfg     Config
	log     zerolog.Logger
}

// NewCrontab builds the scheduler. sweeper may be nil when sessions live in Redis.
func NewCrontab(purger ChatLogPurger, sweeper SessionSweeper, cfg Config, log zerolog.Logger) *Crontab {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 * * * *"
	}
	return &Crontab{
		ctab:    crontab.New(),
		purger:  purger,
		sweeper: sweeper,
		cfg:     cfg,
		log:     log.With().Str("component", "crontab").Logger(),
	}
}

// Run schedules the maintenance job and blocks until ctx is done.
func (c *Crontab) Run(ctx context.Context) error {
	if err := c.ctab.AddJob(c.cfg.Schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), jobTimeout)
		defer cancel()
		c.maintain(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add maintenance job")
	}
	c.log.Info().Str("schedule", c.cfg.Schedule).Int("retention_days", c.cfg.RetentionDays).Msg("maintenance scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) maintain(ctx context.Context) {
	if c.sweeper != nil {
		if removed := c.sweeper.Sweep(); removed > 0 {
			c.log.Info().Int("removed", removed).Msg("expired sessions swept")
		}
	}
	if c.purger != nil && c.cfg.RetentionDays > 0 {
		deleted, err := c.purger.Purge(ctx, c.cfg.RetentionDays)
		if err != nil {
			c.log.Error().Err(err).Msg("chat log purge failed")
			return
		}
		if deleted > 0 {
			c.log.Info().Int64("deleted", deleted).Msg("chat logs purged")
		}
	}
}
