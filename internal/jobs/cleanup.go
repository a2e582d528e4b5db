package jobs

import (
	"time"

	"github.com/rs/zerolog"
)

// CleanupJob prunes old execution records. It is scheduled through cron by
// the server entry point.
type CleanupJob struct {
	store  *Store
	maxAge time.Duration
	log    zerolog.Logger
}

// NewCleanupJob creates a cleanup job retaining records newer than maxAge.
func NewCleanupJob(store *Store, maxAge time.Duration, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		store:  store,
		maxAge: maxAge,
		log:    log.With().Str("job", "jobs_cleanup").Logger(),
	}
}

// Run deletes expired records.
func (j *CleanupJob) Run() {
	deleted, err := j.store.DeleteOlderThan(j.maxAge)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired execution records")
		return
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("Cleaned up expired execution records")
	}
}
