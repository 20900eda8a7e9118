package monitoring

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Maintenance runs periodic housekeeping against the database: pruning old
// activity events and refreshing query planner statistics. Posts are never
// touched; soft-deleted posts are kept indefinitely so they can be restored.
type Maintenance struct {
	db            *sql.DB
	schedule      string
	retentionDays int
	ticker        *time.Ticker
	done          chan struct{}
	stopOnce      sync.Once
}

// NewMaintenance creates a maintenance runner. schedule is a standard cron
// expression; retentionDays bounds how long activity events are kept.
func NewMaintenance(db *sql.DB, schedule string, retentionDays int) *Maintenance {
	return &Maintenance{
		db:            db,
		schedule:      schedule,
		retentionDays: retentionDays,
		done:          make(chan struct{}),
	}
}

// Run starts the maintenance loop. It wakes up once a minute and fires when
// the cron schedule's next activation has passed.
func (m *Maintenance) Run() {
	log.Info().Str("schedule", m.schedule).Msg("Starting background maintenance...")

	cronSchedule, err := cron.ParseStandard(m.schedule)
	if err != nil {
		log.Error().Err(err).Str("schedule", m.schedule).Msg("Invalid maintenance schedule, job disabled")
		return
	}

	next := cronSchedule.Next(time.Now())

	m.ticker = time.NewTicker(1 * time.Minute)
	defer m.ticker.Stop()

	for {
		select {
		case <-m.done:
			log.Info().Msg("Stopping background maintenance.")
			return
		case <-m.ticker.C:
			now := time.Now()
			if now.After(next) {
				m.runOnce()
				next = cronSchedule.Next(now)
			}
		}
	}
}

// Stop halts the maintenance loop. Closing the channel rather than sending
// keeps Stop from blocking when Run already returned (for example on an
// invalid schedule), and makes repeated calls safe.
func (m *Maintenance) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Maintenance) runOnce() {
	cutoff := time.Now().UTC().AddDate(0, 0, -m.retentionDays)

	res, err := m.db.Exec("DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to prune activity events")
		return
	}
	pruned, _ := res.RowsAffected()

	if _, err := m.db.Exec("ANALYZE"); err != nil {
		log.Error().Err(err).Msg("Maintenance: ANALYZE failed")
		return
	}

	log.Info().Int64("events_pruned", pruned).
		Str("cutoff", fmt.Sprintf("%d days", m.retentionDays)).
		Msg("Maintenance run complete")
}
