package reportnotify

import (
	"context"
	"encoding/json"

	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSService is the SNS call the notifier needs.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes report-ready events to an SNS topic.
type Notifier struct {
	client   SNSService
	topicARN string
	logger   logger.Logger
}

func NewNotifier(client SNSService, topicARN string, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Notifier{client: client, topicARN: topicARN, logger: log}
}

// Notify publishes event and returns the SNS message id.
func (n *Notifier) Notify(ctx context.Context, event models.ReportReadyEvent) (string, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return "", errors.NewNotifyFailedError(err)
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject(event.Target)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventType)},
			"target":     {DataType: aws.String("String"), StringValue: aws.String(event.Target)},
		},
	})
	if err != nil {
		return "", errors.NewNotifyFailedError(err)
	}

	id := aws.ToString(out.MessageId)
	n.logger.Info("report event published", map[string]interface{}{
		"runId":     event.RunID,
		"target":    event.Target,
		"messageId": id,
	})
	return id, nil
}

// SNS subjects are limited to 100 characters.
func subject(target string) string {
	s := "Report ready: " + target
	if r := []rune(s); len(r) > 100 {
		return string(r[:100])
	}
	return s
}
