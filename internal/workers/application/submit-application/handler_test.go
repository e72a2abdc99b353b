// internal/workers/application/submit-application/handler_test.go
package submitapplication

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
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
		SeekerID:       "seeker-001",
		JobID:          "job-001",
		ResumeFileName: "My Resume.pdf",
		ResumeData:     base64.StdEncoding.EncodeToString([]byte("go postgresql kubernetes")),
	}
}

type stubStore struct {
	key  string
	data []byte
	err  error
}

func (s *stubStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.key = key
	s.data = data
	return s.err
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

func expectJobLookup(mock sqlmock.Sqlmock, requirements []string) {
	mock.ExpectQuery(`SELECT requirements FROM jobs WHERE id = \$1`).
		WithArgs("job-001").
		WillReturnRows(sqlmock.NewRows([]string{"requirements"}).AddRow(pq.Array(requirements)))
}

func expectDuplicateCheck(mock sqlmock.Sqlmock, exists bool) {
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("seeker-001", "job-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectInsert(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(sqlmock.AnyArg(), "seeker-001", "job-001", sqlmock.AnyArg(), 0, "submitted", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectJobLookup(mock, []string{"Go and PostgreSQL experience"})
	expectDuplicateCheck(mock, false)
	expectInsert(mock)

	store := &stubStore{}
	scorer := &stubScorer{outcome: pipeline.Scored(67, []string{"go", "postgresql"})}
	handler := NewHandler(createTestConfig(), db, store, scorer, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, output.ApplicationID)
	assert.Equal(t, pipeline.StatusPending, output.ApplicationStatus)
	assert.Equal(t, 67, output.AtsScore)
	assert.Equal(t, output.ResumeKey, store.key)
	assert.Equal(t, []byte("go postgresql kubernetes"), store.data)

	assert.Equal(t, output.ApplicationID, scorer.request.ApplicationID)
	assert.Equal(t, []string{"Go and PostgreSQL experience"}, scorer.request.JobRequirements)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SanitizesResumeKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectJobLookup(mock, []string{"Go"})
	expectDuplicateCheck(mock, false)
	expectInsert(mock)

	store := &stubStore{}
	handler := NewHandler(createTestConfig(), db, store, &stubScorer{outcome: pipeline.NoMatch()}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Contains(t, store.key, "resumes/"+output.ApplicationID+"/my-resume.pdf")
}

func TestHandler_Execute_JobNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT requirements FROM jobs WHERE id = \$1`).
		WithArgs("job-001").
		WillReturnRows(sqlmock.NewRows([]string{"requirements"}))

	handler := NewHandler(createTestConfig(), db, &stubStore{}, &stubScorer{}, logger.NewTestLogger(t))

	_, err = handler.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestHandler_Execute_DuplicateApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectJobLookup(mock, []string{"Go"})
	expectDuplicateCheck(mock, true)

	store := &stubStore{}
	handler := NewHandler(createTestConfig(), db, store, &stubScorer{}, logger.NewTestLogger(t))

	_, err = handler.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrDuplicateApplication)
	assert.Empty(t, store.key)
}

func TestHandler_Execute_UploadFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectJobLookup(mock, []string{"Go"})
	expectDuplicateCheck(mock, false)

	store := &stubStore{err: assert.AnError}
	scorer := &stubScorer{}
	handler := NewHandler(createTestConfig(), db, store, scorer, logger.NewTestLogger(t))

	_, err = handler.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrResumeUploadFailed)
	assert.Equal(t, 0, scorer.calls)
}

func TestHandler_Execute_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectJobLookup(mock, []string{"Go"})
	expectDuplicateCheck(mock, false)
	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnError(assert.AnError)

	handler := NewHandler(createTestConfig(), db, &stubStore{}, &stubScorer{}, logger.NewTestLogger(t))

	_, err = handler.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
}

func TestHandler_Execute_ScoringFailureDoesNotFailSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectJobLookup(mock, []string{"Go"})
	expectDuplicateCheck(mock, false)
	expectInsert(mock)

	scorer := &stubScorer{outcome: pipeline.Scored(50, nil), err: assert.AnError}
	handler := NewHandler(createTestConfig(), db, &stubStore{}, scorer, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, "submitted", output.ApplicationStatus)
	assert.Equal(t, 0, output.AtsScore)
	assert.Equal(t, 1, scorer.calls)
}

func TestHandler_Execute_CrashOutcomeStillCompletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectJobLookup(mock, []string{"Go"})
	expectDuplicateCheck(mock, false)
	expectInsert(mock)

	scorer := &stubScorer{outcome: pipeline.Crashed("boom")}
	handler := NewHandler(createTestConfig(), db, &stubStore{}, scorer, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusCrash, output.ApplicationStatus)
	assert.Equal(t, -1, output.AtsScore)
}

func TestHandler_Execute_ValidatesInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, &stubStore{}, &stubScorer{}, logger.NewTestLogger(t))

	tests := []struct {
		name  string
		input *Input
	}{
		{"missing seeker", &Input{JobID: "j", ResumeData: "aGk="}},
		{"missing job", &Input{SeekerID: "s", ResumeData: "aGk="}},
		{"missing resume", &Input{SeekerID: "s", JobID: "j"}},
		{"bad base64", &Input{SeekerID: "s", JobID: "j", ResumeData: "not!!base64"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestHandler_ValidateVariables_AgainstRegistrySchema(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, &stubStore{}, &stubScorer{}, logger.NewTestLogger(t)).
		WithActivity(&registry.Activity{
			TaskType: TaskType,
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"seekerId", "jobId", "resumeData"},
				"properties": map[string]interface{}{
					"seekerId":   map[string]interface{}{"type": "string", "minLength": 1},
					"jobId":      map[string]interface{}{"type": "string", "minLength": 1},
					"resumeData": map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		})

	stdErr := handler.validateVariables(`{"seekerId": "s-1", "jobId": "j-1", "resumeData": "aGk="}`)
	assert.Nil(t, stdErr)

	stdErr = handler.validateVariables(`{"seekerId": "s-1", "jobId": "j-1"}`)
	require.NotNil(t, stdErr)
	assert.Equal(t, errors.ErrCodeApplicationValidationFailed, stdErr.Code)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "my-resume.pdf", sanitizeFileName("My Resume.pdf"))
	assert.Equal(t, "cv_final-v2.docx", sanitizeFileName("CV_final v2.docx"))
	assert.Equal(t, "resume", sanitizeFileName("???"))
	assert.Equal(t, "resume", sanitizeFileName(""))
}
