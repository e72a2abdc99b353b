// internal/ats/record/recorder.go

package record

import (
	"context"

	"nexthire-workers/internal/ats/pipeline"
)

// Recorder composes the required Postgres write with the optional fan-out
// sinks. Only the Postgres write can fail the run.
type Recorder struct {
	persister *PostgresRecorder
	indexer   *OutcomeIndexer
	alerter   *CrashAlerter
}

func NewRecorder(persister *PostgresRecorder, indexer *OutcomeIndexer, alerter *CrashAlerter) *Recorder {
	return &Recorder{persister: persister, indexer: indexer, alerter: alerter}
}

func (r *Recorder) Record(ctx context.Context, applicationID string, outcome pipeline.Outcome) error {
	if err := r.persister.Record(ctx, applicationID, outcome); err != nil {
		return err
	}

	if r.indexer != nil {
		r.indexer.Index(ctx, applicationID, outcome)
	}
	if r.alerter != nil {
		r.alerter.Alert(ctx, applicationID, outcome)
	}
	return nil
}
