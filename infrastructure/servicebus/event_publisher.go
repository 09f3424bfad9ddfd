package servicebus

import (
	"context"
	"encoding/json"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewClient connects to a namespace with the default Azure credential chain.
func NewClient(namespace string) (*azservicebus.Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

// MessageSender is the part of *azservicebus.Sender the publisher needs.
type MessageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

type EventPublisher struct {
	sender MessageSender
}

// NewEventPublisher opens a sender on queue.
func NewEventPublisher(client *azservicebus.Client, queue string) (*EventPublisher, error) {
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return nil, err
	}
	return NewEventPublisherWithSender(sender), nil
}

func NewEventPublisherWithSender(sender MessageSender) *EventPublisher {
	return &EventPublisher{sender: sender}
}

var _ repository.IEventPublisher = (*EventPublisher)(nil)

func (p *EventPublisher) PublishEvent(ctx context.Context, event model.PublishEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	contentType := "application/json"
	subject := string(event.Platform) + "." + string(event.Status)
	err = p.sender.SendMessage(ctx, &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]any{
			"run_id":  event.RunID,
			"user_id": event.UserID,
		},
	}, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
	}
	return err
}

func (p *EventPublisher) Close(ctx context.Context) error {
	err := p.sender.Close(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
	}
	return err
}
