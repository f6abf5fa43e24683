package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/azfin-hq/azfinnews/internal/logger"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSNotifierNotifySuccess(t *testing.T) {
	client := &fakeSNSClient{}
	notifier := &snsNotifier{
		id:       "sns-1",
		typ:      TypeSNS,
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := notifier.Notify(context.Background(), Event{
		Source:  "APA.az",
		Article: domain.Article{Link: "https://apa.az/economy/a1"},
	})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes["source"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "APA.az" {
		t.Fatalf("source attribute missing or wrong: %#v", attr)
	}
	if client.input.Message == nil || !strings.Contains(aws.ToString(client.input.Message), `"source":"APA.az"`) {
		t.Fatalf("Message missing source: %s", aws.ToString(client.input.Message))
	}
}

func TestSNSNotifierNotifyError(t *testing.T) {
	client := &fakeSNSClient{err: errors.New("boom")}
	notifier := &snsNotifier{
		id:       "sns-1",
		typ:      TypeSNS,
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := notifier.Notify(context.Background(), Event{Source: "APA.az"})
	if err == nil {
		t.Fatalf("expected error from Notify")
	}
}
