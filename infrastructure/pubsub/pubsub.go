package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"channel-insights/domain/dto"
	"channel-insights/infrastructure/logger"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// NewPubSub creates a Pub/Sub client for the project
func NewPubSub(ctx context.Context, projectID string, opts ...option.ClientOption) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project ID is empty")
	}
	return pubsub.NewClient(ctx, projectID, opts...)
}

// DatasetPubSub announces persisted datasets on a Pub/Sub topic
type DatasetPubSub struct {
	PubSubClient *pubsub.Client
	TopicName    string
}

func NewDatasetPubSub(pubSubClient *pubsub.Client, topicName string) *DatasetPubSub {
	return &DatasetPubSub{
		PubSubClient: pubSubClient,
		TopicName:    topicName,
	}
}

func (p *DatasetPubSub) Name() string { return "pubsub" }

// Publish sends the event as JSON, creating the topic on first use
func (p *DatasetPubSub) Publish(ctx context.Context, event *dto.DatasetPublishedEvent) error {
	if p.PubSubClient == nil {
		return fmt.Errorf("pubsub client not configured")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	topic := p.PubSubClient.Topic(p.TopicName)
	defer topic.Stop()

	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.TopicName).Info("Topic doesn't exist - creating it")
		if _, err := p.PubSubClient.CreateTopic(ctx, p.TopicName); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"run_id":     event.RunID,
			"channel_id": event.ChannelID,
		},
	}).Get(ctx)
	if err != nil {
		return err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"serverId": serverID,
		"topic":    p.TopicName,
		"runId":    event.RunID,
	}).Info("Message published")
	return nil
}
