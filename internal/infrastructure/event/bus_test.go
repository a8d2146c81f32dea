package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "OrdemServico", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus_PublishDeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderCreated"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("LedgerGenerated")))

	require.Len(t, handler.received, 1)
	assert.Equal(t, "OrderCreated", handler.received[0].EventType())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"OrderCreated"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"OrderCreated"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated")))

	assert.Len(t, failing.received, 1)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("OrderCreated"),
		newTestEvent("PaymentConfirmed"),
	))

	assert.Len(t, handler.received, 2)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderCreated"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated")))
	assert.Empty(t, handler.received)
}
