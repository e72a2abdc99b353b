// internal/workers/application/submit-application/handler.go
package submitapplication

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nexthire-workers/internal/ats/pipeline"
	cerrors "nexthire-workers/internal/common/errors"
	"nexthire-workers/internal/common/logger"
	"nexthire-workers/internal/common/metrics"
	"nexthire-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "submit-application"
)

var (
	ErrValidationFailed     = errors.New("APPLICATION_VALIDATION_FAILED")
	ErrJobNotFound          = errors.New("JOB_NOT_FOUND")
	ErrDuplicateApplication = errors.New("DUPLICATE_APPLICATION")
	ErrResumeUploadFailed   = errors.New("RESUME_UPLOAD_FAILED")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

// ResumeStore is the slice of the object store this worker writes to.
type ResumeStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// Scorer runs one scoring pipeline pass and records the outcome.
type Scorer interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Outcome, error)
}

type Handler struct {
	db           *sql.DB
	store        ResumeStore
	scorer       Scorer
	activity     *registry.Activity
	resumePrefix string
	timeout      time.Duration
	logger       logger.Logger
	errHandler   *cerrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, store ResumeStore, scorer Scorer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		db:           db,
		store:        store,
		scorer:       scorer,
		resumePrefix: config.ResumePrefix,
		timeout:      config.Timeout,
		logger:       l,
		errHandler:   cerrors.NewErrorHandler(l),
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

// execute creates the application record and then scores it in-line. Scoring
// is best-effort here: once the row exists the submission has succeeded, and
// any scoring problem only changes the status the row ends up with.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	resume, err := base64.StdEncoding.DecodeString(input.ResumeData)
	if err != nil {
		return nil, fmt.Errorf("%w: resumeData is not valid base64: %v", ErrValidationFailed, err)
	}

	var requirements []string
	err = h.db.QueryRowContext(ctx,
		`SELECT requirements FROM jobs WHERE id = $1`,
		input.JobID).Scan(pq.Array(&requirements))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: job %s", ErrJobNotFound, input.JobID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch job requirements: %v", ErrDatabaseInsertFailed, err)
	}

	var exists bool
	err = h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE seeker_id = $1 AND job_id = $2
		)`, input.SeekerID, input.JobID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: application already exists for seeker %s and job %s",
			ErrDuplicateApplication, input.SeekerID, input.JobID)
	}

	appID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)
	resumeKey := h.resumePrefix + appID + "/" + sanitizeFileName(input.ResumeFileName)

	if err := h.store.Upload(ctx, resumeKey, resume, "application/octet-stream"); err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", ErrResumeUploadFailed, resumeKey, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, seeker_id, job_id, resume_key,
			ats_score, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		appID,
		input.SeekerID,
		input.JobID,
		resumeKey,
		0,
		"submitted",
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	h.logger.Info("application record created", map[string]interface{}{
		"applicationId": appID,
		"seekerId":      input.SeekerID,
		"jobId":         input.JobID,
		"resumeKey":     resumeKey,
	})

	output := &Output{
		ApplicationID:     appID,
		ApplicationStatus: "submitted",
		AtsScore:          0,
		ResumeKey:         resumeKey,
		CreatedAt:         createdAt,
	}

	outcome, err := h.scorer.Run(ctx, pipeline.Request{
		ApplicationID:   appID,
		ResumeBinary:    resume,
		JobRequirements: requirements,
	})
	if err != nil {
		h.logger.Warn("scoring failed after submission", map[string]interface{}{
			"applicationId": appID,
			"error":         err.Error(),
		})
		return output, nil
	}

	legacy := outcome.Legacy()
	output.AtsScore = legacy.Score
	output.ApplicationStatus = legacy.Status
	return output, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9._-]+`)

func sanitizeFileName(name string) string {
	cleaned := unsafeFileChars.ReplaceAllString(strings.ToLower(name), "-")
	cleaned = strings.Trim(cleaned, "-.")
	if cleaned == "" {
		return "resume"
	}
	return cleaned
}

func validateInput(input *Input) error {
	if input.SeekerID == "" {
		return fmt.Errorf("%w: seekerId is required", ErrValidationFailed)
	}
	if input.JobID == "" {
		return fmt.Errorf("%w: jobId is required", ErrValidationFailed)
	}
	if input.ResumeData == "" {
		return fmt.Errorf("%w: resumeData is required", ErrValidationFailed)
	}
	return nil
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
	case errors.Is(err, ErrValidationFailed):
		return cerrors.NewApplicationValidationFailedError(err.Error())
	case errors.Is(err, ErrJobNotFound):
		return cerrors.NewJobNotFoundError(input.JobID)
	case errors.Is(err, ErrDuplicateApplication):
		return cerrors.NewDuplicateApplicationError(input.JobID, input.SeekerID)
	case errors.Is(err, ErrResumeUploadFailed):
		return cerrors.NewResumeUploadFailedError(h.resumePrefix, err)
	case errors.Is(err, ErrDatabaseInsertFailed):
		return cerrors.NewDatabaseInsertFailedError(err)
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
