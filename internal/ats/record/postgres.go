// internal/ats/record/postgres.go

// Package record persists scoring outcomes: the score and status land on the
// application row, with optional best-effort fan-out to the triage index and
// the crash alert topic.
package record

import (
	"context"
	"database/sql"
	"fmt"

	"nexthire-workers/internal/ats/pipeline"
	"nexthire-workers/internal/common/errors"
	"nexthire-workers/internal/common/logger"
)

const updateApplicationQuery = `UPDATE applications SET ats_score = $2, status = $3, updated_at = NOW() WHERE id = $1`

// PostgresRecorder writes the legacy (ats_score, status) projection onto the
// applications table. Writes are idempotent; re-recording an outcome simply
// overwrites the previous values.
type PostgresRecorder struct {
	db           *sql.DB
	statusMaxLen int
	logger       logger.Logger
}

func NewPostgresRecorder(db *sql.DB, statusMaxLen int, log logger.Logger) *PostgresRecorder {
	return &PostgresRecorder{db: db, statusMaxLen: statusMaxLen, logger: log}
}

func (r *PostgresRecorder) Record(ctx context.Context, applicationID string, outcome pipeline.Outcome) error {
	legacy := outcome.Legacy()
	status := legacy.Status
	if r.statusMaxLen > 0 {
		// varchar(n) counts characters, so clip runes, not bytes.
		if runes := []rune(status); len(runes) > r.statusMaxLen {
			status = string(runes[:r.statusMaxLen])
		}
	}

	result, err := r.db.ExecContext(ctx, updateApplicationQuery, applicationID, legacy.Score, status)
	if err != nil {
		return errors.NewScorePersistFailedError(applicationID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewScorePersistFailedError(applicationID, err)
	}
	if rows == 0 {
		return errors.NewScorePersistFailedError(applicationID,
			fmt.Errorf("application %s not found", applicationID))
	}

	r.logger.Debug("scoring outcome persisted", map[string]interface{}{
		"application_id": applicationID,
		"score":          legacy.Score,
		"status":         status,
	})
	return nil
}
