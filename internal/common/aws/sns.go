// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	apperrors "campaign-enricher/internal/common/errors"
)

const NotificationTypeEnrichmentComplete = "enrichment_complete"

// SNSPublisher is the subset of the SNS API the notifier uses.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Completion describes a finished enrichment run.
type Completion struct {
	RequestID   string    `json:"requestId"`
	Source      string    `json:"source"`
	Location    string    `json:"location"`
	Product     string    `json:"product"`
	TrendCount  int       `json:"trendCount"`
	CompletedAt time.Time `json:"completedAt"`
}

// Notifier publishes completion notices to an SNS topic.
type Notifier struct {
	client   SNSPublisher
	topicARN string
}

func NewNotifier(ctx context.Context, region, topicARN string) (*Notifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewNotifierWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

func NewNotifierWithClient(client SNSPublisher, topicARN string) *Notifier {
	return &Notifier{client: client, topicARN: topicARN}
}

// NotifyCompletion publishes c and returns the SNS message id.
func (n *Notifier) NotifyCompletion(ctx context.Context, c Completion) (string, error) {
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}

	body, err := json.Marshal(c)
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError(NotificationTypeEnrichmentComplete, err)
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String("Campaign enrichment complete"),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"notificationType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(NotificationTypeEnrichmentComplete),
			},
			"source": {
				DataType:    aws.String("String"),
				StringValue: aws.String(c.Source),
			},
		},
	})
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError(NotificationTypeEnrichmentComplete, err)
	}
	return aws.ToString(out.MessageId), nil
}
