package servicebus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nova-studio/domain/model"
	"nova-studio/infrastructure/servicebus"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error {
	args := m.Called(ctx, message, options)
	return args.Error(0)
}

func (m *MockSender) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestEventPublisher_PublishEvent(t *testing.T) {
	sender := new(MockSender)
	event := model.PublishEvent{
		RunID:    "run-1",
		UserID:   "u1",
		Platform: model.PlatformTikTok,
		Status:   model.PublishFailed,
		Error:    "not connected",
	}

	sender.On("SendMessage", mock.Anything, mock.MatchedBy(func(msg *azservicebus.Message) bool {
		var decoded model.PublishEvent
		if err := json.Unmarshal(msg.Body, &decoded); err != nil {
			return false
		}
		return decoded.Error == "not connected" &&
			*msg.Subject == "tiktok.failed" &&
			msg.ApplicationProperties["run_id"] == "run-1"
	}), (*azservicebus.SendMessageOptions)(nil)).Return(nil)

	publisher := servicebus.NewEventPublisherWithSender(sender)
	require.NoError(t, publisher.PublishEvent(context.Background(), event))
	sender.AssertExpectations(t)
}

func TestEventPublisher_SendError(t *testing.T) {
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("link detached"))
	sender.On("Close", mock.Anything).Return(nil)

	publisher := servicebus.NewEventPublisherWithSender(sender)
	err := publisher.PublishEvent(context.Background(), model.PublishEvent{Platform: model.PlatformInstagram})
	assert.EqualError(t, err, "link detached")
	assert.NoError(t, publisher.Close(context.Background()))
	sender.AssertExpectations(t)
}
