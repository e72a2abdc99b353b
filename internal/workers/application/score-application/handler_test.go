// internal/workers/application/score-application/handler_test.go
package scoreapplication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexthire-workers/internal/ats/pipeline"
	"nexthire-workers/internal/common/errors"
	"nexthire-workers/internal/common/logger"
	"nexthire-workers/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestInput() *Input {
	return &Input{
		ApplicationID:   "app-001",
		ResumeKey:       "resumes/app-001/resume.pdf",
		JobRequirements: []string{"Go and PostgreSQL experience"},
	}
}

type stubStore struct {
	data map[string][]byte
	err  error
	key  string
}

func (s *stubStore) Download(_ context.Context, key string) ([]byte, error) {
	s.key = key
	if s.err != nil {
		return nil, s.err
	}
	return s.data[key], nil
}

type stubScorer struct {
	outcome pipeline.Outcome
	err     error
	request pipeline.Request
	calls   int
}

func (s *stubScorer) Run(_ context.Context, req pipeline.Request) (pipeline.Outcome, error) {
	s.calls++
	s.request = req
	return s.outcome, s.err
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	store := &stubStore{data: map[string][]byte{
		"resumes/app-001/resume.pdf": []byte("go postgresql"),
	}}
	scorer := &stubScorer{outcome: pipeline.Scored(67, []string{"go", "postgresql"})}
	handler := NewHandler(createTestConfig(), store, scorer, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, "app-001", output.ApplicationID)
	assert.Equal(t, 67, output.AtsScore)
	assert.Equal(t, pipeline.StatusPending, output.Status)

	assert.Equal(t, "resumes/app-001/resume.pdf", store.key)
	assert.Equal(t, "app-001", scorer.request.ApplicationID)
	assert.Equal(t, []byte("go postgresql"), scorer.request.ResumeBinary)
	assert.Equal(t, []string{"Go and PostgreSQL experience"}, scorer.request.JobRequirements)
}

func TestHandler_Execute_TerminalStatusCompletesJob(t *testing.T) {
	tests := []struct {
		name    string
		outcome pipeline.Outcome
		score   int
		status  string
	}{
		{"no skills", pipeline.NoSkills(), 0, pipeline.StatusNoSkills},
		{"empty text", pipeline.EmptyText(), 0, pipeline.StatusEmptyText},
		{"no match", pipeline.NoMatch(), 0, pipeline.StatusNoMatch},
		{"extraction failure", pipeline.ExtractionFailed("bad header"), 0, "ERR: bad header"},
		{"crash", pipeline.Crashed("boom"), -1, pipeline.StatusCrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{data: map[string][]byte{
				"resumes/app-001/resume.pdf": []byte("resume"),
			}}
			scorer := &stubScorer{outcome: tt.outcome}
			handler := NewHandler(createTestConfig(), store, scorer, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput())

			require.NoError(t, err)
			assert.Equal(t, tt.score, output.AtsScore)
			assert.Equal(t, tt.status, output.Status)
		})
	}
}

func TestHandler_Execute_DownloadFailure(t *testing.T) {
	store := &stubStore{err: assert.AnError}
	scorer := &stubScorer{}
	handler := NewHandler(createTestConfig(), store, scorer, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResumeDownloadFailed)
	assert.Nil(t, output)
	assert.Equal(t, 0, scorer.calls)
}

func TestHandler_Execute_PersistFailure(t *testing.T) {
	store := &stubStore{data: map[string][]byte{
		"resumes/app-001/resume.pdf": []byte("resume"),
	}}
	scorer := &stubScorer{outcome: pipeline.Scored(50, nil), err: assert.AnError}
	handler := NewHandler(createTestConfig(), store, scorer, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScorePersistFailed)
}

func TestHandler_Execute_ValidatesInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubStore{}, &stubScorer{}, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{ResumeKey: "resumes/x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = handler.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHandler_ValidateVariables_AgainstRegistrySchema(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubStore{}, &stubScorer{}, logger.NewTestLogger(t)).
		WithActivity(&registry.Activity{
			TaskType: TaskType,
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"applicationId", "resumeKey"},
				"properties": map[string]interface{}{
					"applicationId": map[string]interface{}{"type": "string", "minLength": 1},
					"resumeKey":     map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		})

	stdErr := handler.validateVariables(`{"applicationId": "app-1", "resumeKey": "resumes/app-1/resume.pdf"}`)
	assert.Nil(t, stdErr)

	stdErr = handler.validateVariables(`{"applicationId": "app-1"}`)
	require.NotNil(t, stdErr)
	assert.Equal(t, errors.ErrCodeApplicationValidationFailed, stdErr.Code)

	stdErr = handler.validateVariables(`{"applicationId": 42, "resumeKey": "resumes/app-1/resume.pdf"}`)
	require.NotNil(t, stdErr)
	assert.Equal(t, errors.ErrCodeApplicationValidationFailed, stdErr.Code)
}

func TestHandler_ValidateVariables_NoActivityAttached(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubStore{}, &stubScorer{}, logger.NewTestLogger(t))
	assert.Nil(t, handler.validateVariables(`{"anything": true}`))
}
