package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sushka2023/sushka-shop-backend/internal/orders"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/mailer"
)

// Dispatcher delivers order emails off the request path. Jobs go through a
// bounded channel into a single background worker; a full queue rejects the
// enqueue instead of blocking checkout.
type Dispatcher struct {
	sender     mailer.Sender
	logger     *logger.Logger
	adminEmail string
	timeout    time.Duration

	jobs chan orders.CreatedEvent
	done chan struct{}
	once sync.Once
}

// DispatcherParams bundles the dispatcher dependencies.
type DispatcherParams struct {
	Sender mailer.Sender
	Config config.MailConfig
	Logger *logger.Logger
}

// NewDispatcher builds the dispatcher and starts its worker.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mail sender required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	queueSize := params.Config.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	timeout := params.Config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	d := &Dispatcher{
		sender:     params.Sender,
		logger:     params.Logger,
		adminEmail: params.Config.AdminEmail,
		timeout:    timeout,
		jobs:       make(chan orders.CreatedEvent, queueSize),
		done:       make(chan struct{}),
	}
	go d.run()
	return d, nil
}

// OrderCreated queues the confirmation emails for a freshly created order.
func (d *Dispatcher) OrderCreated(event orders.CreatedEvent) error {
	select {
	case d.jobs <- event:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, "notification queue is full")
	}
}

// Close stops accepting jobs and drains what is already queued.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.jobs)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.jobs {
		d.dispatch(event)
	}
}

func (d *Dispatcher) dispatch(event orders.CreatedEvent) {
	ctx := d.logger.WithField(context.Background(), "order_id", event.OrderID)

	if event.BuyerEmail != "" {
		if err := d.send(buyerMessage(event)); err != nil {
			d.logger.Error(ctx, "send buyer notification", err)
		}
	}
	if d.adminEmail != "" {
		if err := d.send(adminMessage(d.adminEmail, event)); err != nil {
			d.logger.Error(ctx, "send admin notification", err)
		}
	}
}

func (d *Dispatcher) send(msg mailer.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.sender.Send(ctx, msg)
}

func buyerMessage(event orders.CreatedEvent) mailer.Message {
	name := event.BuyerName
	if name == "" {
		name = "покупцю"
	}
	return mailer.Message{
		To:      event.BuyerEmail,
		Subject: fmt.Sprintf("Замовлення №%d прийнято", event.OrderID),
		Text: fmt.Sprintf(
			"Дякуємо, %s! Ваше замовлення №%d на суму %s грн прийнято. Менеджер зв'яжеться з вами для підтвердження.",
			name, event.OrderID, event.Total.StringFixed(2),
		),
	}
}

func adminMessage(adminEmail string, event orders.CreatedEvent) mailer.Message {
	return mailer.Message{
		To:      adminEmail,
		Subject: fmt.Sprintf("Нове замовлення №%d", event.OrderID),
		Text: fmt.Sprintf(
			"Створено замовлення №%d на суму %s грн. Покупець: %s <%s>.",
			event.OrderID, event.Total.StringFixed(2), event.BuyerName, event.BuyerEmail,
		),
	}
}
