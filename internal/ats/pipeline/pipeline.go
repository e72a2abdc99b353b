// internal/ats/pipeline/pipeline.go

// Package pipeline orchestrates a scoring run: resolve the vocabulary,
// extract text from the resume binary, match, compute the score, and hand
// the outcome to the recorder.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nexthire-workers/internal/ats/match"
	"nexthire-workers/internal/ats/score"
	"nexthire-workers/internal/common/logger"
	"nexthire-workers/internal/common/metrics"
)

// Resolver maps job requirements onto the scoring vocabulary.
type Resolver interface {
	Resolve(ctx context.Context, requirements []string) []string
}

// Extractor produces plain text from a resume binary.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Recorder persists the outcome of a run for one application.
type Recorder interface {
	Record(ctx context.Context, applicationID string, outcome Outcome) error
}

// Observer receives run-level telemetry in addition to the package metrics.
type Observer interface {
	RecordScoringRun(ctx context.Context, status string)
	RecordScoringDuration(ctx context.Context, duration time.Duration, status string)
}

// Request carries everything one scoring run needs.
type Request struct {
	ApplicationID   string
	ResumeBinary    []byte
	JobRequirements []string
}

// Pipeline wires the scoring stages together. All stages are injected so
// tests can swap any of them out.
type Pipeline struct {
	resolver  Resolver
	extractor Extractor
	recorder  Recorder
	observer  Observer
	logger    logger.Logger
}

func New(resolver Resolver, extractor Extractor, recorder Recorder, log logger.Logger) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		extractor: extractor,
		recorder:  recorder,
		logger:    log,
	}
}

// WithObserver attaches an optional telemetry sink and returns the pipeline.
func (p *Pipeline) WithObserver(o Observer) *Pipeline {
	p.observer = o
	return p
}

// Run executes one scoring run and records its outcome. The returned Outcome
// is always terminal; the error reports a recording failure only, never a
// scoring decision. A panic anywhere in the stages is converted into a
// crashed outcome rather than propagated.
func (p *Pipeline) Run(ctx context.Context, req Request) (outcome Outcome, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("scoring run panicked", map[string]interface{}{
				"application_id": req.ApplicationID,
				"panic":          fmt.Sprintf("%v", r),
			})
			outcome = Crashed(fmt.Sprintf("%v", r))
			err = p.record(ctx, req.ApplicationID, outcome)
		}
		status := metrics.CollapseStatus(outcome.Legacy().Status)
		metrics.ScoringRuns.WithLabelValues(status).Inc()
		metrics.ScoringDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
		if p.observer != nil {
			p.observer.RecordScoringRun(ctx, status)
			p.observer.RecordScoringDuration(ctx, time.Since(start), status)
		}
	}()

	outcome = p.evaluate(ctx, req)
	err = p.record(ctx, req.ApplicationID, outcome)
	return outcome, err
}

func (p *Pipeline) evaluate(ctx context.Context, req Request) Outcome {
	vocabulary := p.resolver.Resolve(ctx, req.JobRequirements)
	if len(vocabulary) == 0 {
		p.logger.Info("no scoring vocabulary for job requirements", map[string]interface{}{
			"application_id": req.ApplicationID,
		})
		return NoSkills()
	}

	text, extractErr := p.extractor.Extract(ctx, req.ResumeBinary)
	if extractErr != nil {
		p.logger.Warn("resume extraction failed", map[string]interface{}{
			"application_id": req.ApplicationID,
			"error":          extractErr.Error(),
		})
		return ExtractionFailed(extractErr.Error())
	}
	metrics.ExtractionBytes.Observe(float64(len(req.ResumeBinary)))

	normalized := match.Normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return EmptyText()
	}

	// The status keys off the score, not the raw match count: a handful of
	// hits in a very large vocabulary can still round to zero percent.
	result := match.Match(vocabulary, normalized)
	s := score.Compute(result.MatchedCount, len(vocabulary))
	if s == 0 {
		return NoMatch()
	}
	p.logger.Info("resume scored", map[string]interface{}{
		"application_id":  req.ApplicationID,
		"score":           s,
		"matched_count":   result.MatchedCount,
		"vocabulary_size": len(vocabulary),
	})
	return Scored(s, result.MatchedTokens)
}

func (p *Pipeline) record(ctx context.Context, applicationID string, outcome Outcome) error {
	if err := p.recorder.Record(ctx, applicationID, outcome); err != nil {
		p.logger.Error("failed to record scoring outcome", map[string]interface{}{
			"application_id": applicationID,
			"status":         outcome.Legacy().Status,
			"error":          err.Error(),
		})
		return err
	}
	return nil
}
