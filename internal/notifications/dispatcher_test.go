package notifications

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushka2023/sushka-shop-backend/internal/orders"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/mailer"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	err      error
	block    chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, msg mailer.Message) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailer.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func nopLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestDispatcher(t *testing.T, sender mailer.Sender, cfg config.MailConfig) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(DispatcherParams{Sender: sender, Config: cfg, Logger: nopLogger()})
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func sampleEvent() orders.CreatedEvent {
	return orders.CreatedEvent{
		OrderID:    42,
		BuyerEmail: "buyer@example.com",
		BuyerName:  "Олена Шевченко",
		Total:      decimal.RequireFromString("341.01"),
	}
}

func TestDispatcherSendsBuyerAndAdmin(t *testing.T) {
	sender := &recordingSender{}
	d := newTestDispatcher(t, sender, config.MailConfig{AdminEmail: "admin@example.com", QueueSize: 4, Timeout: time.Second})

	require.NoError(t, d.OrderCreated(sampleEvent()))
	d.Close()

	msgs := sender.sent()
	require.Len(t, msgs, 2)
	assert.Equal(t, "buyer@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].Subject, "42")
	assert.Contains(t, msgs[0].Text, "341.01")
	assert.Equal(t, "admin@example.com", msgs[1].To)
}

func TestDispatcherSkipsBuyerWithoutEmail(t *testing.T) {
	sender := &recordingSender{}
	d := newTestDispatcher(t, sender, config.MailConfig{AdminEmail: "admin@example.com", QueueSize: 4, Timeout: time.Second})

	event := sampleEvent()
	event.BuyerEmail = ""
	require.NoError(t, d.OrderCreated(event))
	d.Close()

	msgs := sender.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "admin@example.com", msgs[0].To)
}

func TestDispatcherFullQueueRejects(t *testing.T) {
	block := make(chan struct{})
	sender := &recordingSender{block: block}
	d := newTestDispatcher(t, sender, config.MailConfig{QueueSize: 1, Timeout: time.Second})

	// first job occupies the worker, second fills the queue
	require.NoError(t, d.OrderCreated(sampleEvent()))
	_ = d.OrderCreated(sampleEvent())

	var rejected error
	for i := 0; i < 10; i++ {
		if rejected = d.OrderCreated(sampleEvent()); rejected != nil {
			break
		}
	}
	require.Error(t, rejected)
	appErr := pkgerrors.As(rejected)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())

	close(block)
}

func TestDispatcherSendFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := newTestDispatcher(t, sender, config.MailConfig{AdminEmail: "admin@example.com", QueueSize: 4, Timeout: time.Second})

	require.NoError(t, d.OrderCreated(sampleEvent()))
	d.Close()
	assert.Empty(t, sender.sent())
}
