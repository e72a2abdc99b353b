// internal/workers/application/score-application/handler.go
package scoreapplication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nexthire-workers/internal/ats/pipeline"
	cerrors "nexthire-workers/internal/common/errors"
	"nexthire-workers/internal/common/logger"
	"nexthire-workers/internal/common/metrics"
	"nexthire-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-application"
)

var (
	ErrResumeDownloadFailed = errors.New("RESUME_DOWNLOAD_FAILED")
	ErrScorePersistFailed   = errors.New("SCORE_PERSIST_FAILED")
	ErrInvalidInput         = errors.New("APPLICATION_VALIDATION_FAILED")
)

// ResumeStore is the slice of the object store this worker reads from.
type ResumeStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Scorer runs one scoring pipeline pass and records the outcome.
type Scorer interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Outcome, error)
}

type Handler struct {
	store      ResumeStore
	scorer     Scorer
	activity   *registry.Activity
	timeout    time.Duration
	logger     logger.Logger
	errHandler *cerrors.ErrorHandler
}

func NewHandler(config *Config, store ResumeStore, scorer Scorer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		store:      store,
		scorer:     scorer,
		timeout:    config.Timeout,
		logger:     l,
		errHandler: cerrors.NewErrorHandler(l),
	}
}

// WithActivity attaches the registry entry whose input schema guards Handle.
func (h *Handler) WithActivity(activity *registry.Activity) *Handler {
	h.activity = activity
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := cerrors.NewApplicationValidationFailedError(fmt.Sprintf("parse input: %v", err))
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	if stdErr := h.validateVariables(job.Variables); stdErr != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := h.standardError(&input, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

// execute downloads the resume and runs the scoring pipeline. Scoring itself
// never fails the job: every scoring problem lands in a terminal status on
// the application row. Only infrastructure failures (download, persist) are
// surfaced to the workflow engine.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, fmt.Errorf("%w: applicationId is required", ErrInvalidInput)
	}
	if input.ResumeKey == "" {
		return nil, fmt.Errorf("%w: resumeKey is required", ErrInvalidInput)
	}

	resume, err := h.store.Download(ctx, input.ResumeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", ErrResumeDownloadFailed, input.ResumeKey, err)
	}

	outcome, err := h.scorer.Run(ctx, pipeline.Request{
		ApplicationID:   input.ApplicationID,
		ResumeBinary:    resume,
		JobRequirements: input.JobRequirements,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: application %s: %v", ErrScorePersistFailed, input.ApplicationID, err)
	}

	legacy := outcome.Legacy()
	h.logger.Info("application scored", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"atsScore":      legacy.Score,
		"status":        legacy.Status,
	})

	return &Output{
		ApplicationID: input.ApplicationID,
		AtsScore:      legacy.Score,
		Status:        legacy.Status,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

// validateVariables checks the raw job variables against the registry input
// schema. Handlers without a registry entry skip schema validation and rely
// on execute's field checks.
func (h *Handler) validateVariables(raw string) *cerrors.StandardError {
	if h.activity == nil {
		return nil
	}
	var variables map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &variables); err != nil {
		return cerrors.NewApplicationValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	if err := h.activity.ValidateInput(variables); err != nil {
		return cerrors.NewApplicationValidationFailedError(err.Error())
	}
	return nil
}

// standardError maps execute's sentinel errors onto structured errors so the
// shared handler can pick the right retry policy.
func (h *Handler) standardError(input *Input, err error) *cerrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return cerrors.NewApplicationValidationFailedError(err.Error())
	case errors.Is(err, ErrResumeDownloadFailed):
		return cerrors.NewResumeDownloadFailedError(input.ResumeKey, err)
	case errors.Is(err, ErrScorePersistFailed):
		return cerrors.NewScorePersistFailedError(input.ApplicationID, err)
	default:
		return &cerrors.StandardError{
			Code:      "INTERNAL_ERROR",
			Message:   "Unexpected error",
			Details:   err.Error(),
			Timestamp: time.Now().UTC(),
		}
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
