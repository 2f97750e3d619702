package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-admin/config"
	"storefront-admin/models"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind).Error(0)
}

func (m *MockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ret := m.Called(name, args)
	return amqp.Queue{Name: name}, ret.Error(0)
}

func (m *MockChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return m.Called(name, key, exchange).Error(0)
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *MockChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	ret := m.Called(queue, consumer)
	ch, _ := ret.Get(0).(<-chan amqp.Delivery)
	return ch, ret.Error(1)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		AdminExchange:       "admin_events",
		OrderEventsExchange: "orders_exchange",
		OrderEventsQueue:    "admin_order_events",
		DeadLetterQueue:     "admin_dead_letter",
		MaxPriority:         10,
	}
}

func TestSetupQueues(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", "admin_dead_letter_exchange", "direct").Return(nil)
	ch.On("QueueDeclare", "admin_dead_letter", mock.Anything).Return(nil)
	ch.On("QueueBind", "admin_dead_letter", "admin_dead_letter", "admin_dead_letter_exchange").Return(nil)
	ch.On("ExchangeDeclare", "admin_events", "fanout").Return(nil)
	ch.On("ExchangeDeclare", "orders_exchange", "fanout").Return(nil)
	ch.On("QueueDeclare", "admin_order_events", mock.MatchedBy(func(args amqp.Table) bool {
		return args["x-max-priority"] == 10 && args["x-dead-letter-exchange"] == "admin_dead_letter_exchange"
	})).Return(nil)
	ch.On("QueueBind", "admin_order_events", "", "orders_exchange").Return(nil)

	require.NoError(t, NewWithChannel(ch, testConfig()).SetupQueues())
	ch.AssertExpectations(t)
}

func TestSetupQueuesStopsOnError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", "admin_dead_letter_exchange", "direct").Return(errors.New("channel closed"))

	err := NewWithChannel(ch, testConfig()).SetupQueues()
	assert.ErrorContains(t, err, "dead letter exchange")
	ch.AssertNotCalled(t, "QueueDeclare", mock.Anything, mock.Anything)
}

func TestPublishOrderEvent(t *testing.T) {
	ch := new(MockChannel)
	var published amqp.Publishing
	ch.On("PublishWithContext", "admin_events", "status_changed", mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).(amqp.Publishing) }).
		Return(nil)

	event := models.OrderEvent{
		OrderID:  1002,
		Type:     "status_changed",
		Status:   models.StatusShipped,
		Previous: models.StatusPaid,
		Actor:    "admin@store.com",
		Occurred: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewWithChannel(ch, testConfig()).PublishOrderEvent(context.Background(), event, 42))

	assert.Equal(t, uint8(10), published.Priority)
	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp.Persistent, published.DeliveryMode)

	var decoded models.OrderEvent
	require.NoError(t, json.Unmarshal(published.Body, &decoded))
	assert.Equal(t, event.OrderID, decoded.OrderID)
	assert.Equal(t, models.StatusShipped, decoded.Status)
}

func TestPublishOrderEventError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything).Return(amqp.ErrClosed)

	err := NewWithChannel(ch, testConfig()).PublishOrderEvent(context.Background(), models.OrderEvent{OrderID: 3, Type: "status_changed"}, 5)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}
