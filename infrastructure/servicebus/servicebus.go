package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"channel-insights/domain/dto"
	"channel-insights/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus connects to a namespace such as "example.servicebus.windows.net"
// with the default Azure credential chain.
func NewServiceBus(ctx context.Context, namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("service bus namespace is empty")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// DatasetServiceBus announces persisted datasets on a Service Bus queue
type DatasetServiceBus struct {
	queue     string
	newSender func(queue string) (messageSender, error)
}

func NewDatasetServiceBus(client *azservicebus.Client, queue string) *DatasetServiceBus {
	sb := &DatasetServiceBus{queue: queue}
	if client != nil {
		sb.newSender = func(q string) (messageSender, error) {
			return client.NewSender(q, nil)
		}
	}
	return sb
}

func (s *DatasetServiceBus) Name() string { return "servicebus" }

func (s *DatasetServiceBus) Publish(ctx context.Context, event *dto.DatasetPublishedEvent) error {
	if s.newSender == nil {
		return fmt.Errorf("service bus client not configured")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sender, err := s.newSender(s.queue)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}()

	contentType := "application/json"
	subject := "dataset.published"
	messageID := event.RunID
	err = sender.SendMessage(ctx, &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		MessageID:   &messageID,
		ApplicationProperties: map[string]interface{}{
			"channel_id": event.ChannelID,
			"rows":       event.Rows,
		},
	}, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}

	logger.GetLogger().WithFields(map[string]interface{}{"queue": s.queue, "runId": event.RunID}).Info("Message sent")
	return nil
}
