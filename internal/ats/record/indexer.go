// internal/ats/record/indexer.go

package record

import (
	"context"
	"encoding/json"
	"time"

	"nexthire-workers/internal/ats/pipeline"
	"nexthire-workers/internal/common/logger"
)

// DocumentIndexer is the slice of the Elasticsearch client the outcome
// indexer needs.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, index, id string, body []byte) error
}

// OutcomeDocument is the triage document indexed per scoring run. Support
// teams query it to find applications stuck in non-Pending states.
type OutcomeDocument struct {
	ApplicationID string   `json:"application_id"`
	Kind          string   `json:"kind"`
	Score         int      `json:"score"`
	Status        string   `json:"status"`
	MatchedTokens []string `json:"matched_tokens,omitempty"`
	Diagnostic    string   `json:"diagnostic,omitempty"`
	RecordedAt    string   `json:"recorded_at"`
}

// OutcomeIndexer mirrors each outcome into an Elasticsearch index. Index
// failures never fail the run; the row in Postgres is the source of truth.
type OutcomeIndexer struct {
	indexer DocumentIndexer
	index   string
	logger  logger.Logger
	now     func() time.Time
}

func NewOutcomeIndexer(indexer DocumentIndexer, index string, log logger.Logger) *OutcomeIndexer {
	return &OutcomeIndexer{indexer: indexer, index: index, logger: log, now: time.Now}
}

func (i *OutcomeIndexer) Index(ctx context.Context, applicationID string, outcome pipeline.Outcome) {
	legacy := outcome.Legacy()
	doc := OutcomeDocument{
		ApplicationID: applicationID,
		Kind:          outcome.Kind.String(),
		Score:         legacy.Score,
		Status:        legacy.Status,
		MatchedTokens: outcome.MatchedTokens,
		Diagnostic:    outcome.Diagnostic,
		RecordedAt:    i.now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		i.logger.Warn("failed to marshal outcome document", map[string]interface{}{
			"application_id": applicationID,
			"error":          err.Error(),
		})
		return
	}

	if err := i.indexer.IndexDocument(ctx, i.index, applicationID, body); err != nil {
		i.logger.Warn("failed to index scoring outcome", map[string]interface{}{
			"application_id": applicationID,
			"index":          i.index,
			"error":          err.Error(),
		})
	}
}
