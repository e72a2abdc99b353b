// internal/ats/record/alerter.go

package record

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"nexthire-workers/internal/ats/pipeline"
	"nexthire-workers/internal/common/logger"
)

// Publisher is the slice of the SNS client the crash alerter needs.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// CrashAlerter notifies operators when a scoring run crashes. A crashed run
// means a panic escaped every pipeline stage, which always warrants a look.
// Publish failures are logged and swallowed.
type CrashAlerter struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
	now       func() time.Time
}

func NewCrashAlerter(publisher Publisher, topicARN string, log logger.Logger) *CrashAlerter {
	return &CrashAlerter{publisher: publisher, topicARN: topicARN, logger: log, now: time.Now}
}

type crashAlert struct {
	ApplicationID string `json:"application_id"`
	Diagnostic    string `json:"diagnostic"`
	OccurredAt    string `json:"occurred_at"`
}

func (a *CrashAlerter) Alert(ctx context.Context, applicationID string, outcome pipeline.Outcome) {
	if outcome.Kind != pipeline.KindCrashed {
		return
	}

	payload, err := json.Marshal(crashAlert{
		ApplicationID: applicationID,
		Diagnostic:    outcome.Diagnostic,
		OccurredAt:    a.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		a.logger.Warn("failed to marshal crash alert", map[string]interface{}{
			"application_id": applicationID,
			"error":          err.Error(),
		})
		return
	}

	_, err = a.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String("ATS scoring crash"),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		a.logger.Warn("failed to publish crash alert", map[string]interface{}{
			"application_id": applicationID,
			"topic_arn":      a.topicARN,
			"error":          err.Error(),
		})
	}
}
