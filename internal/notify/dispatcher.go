package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSendTimeout bounds one background notification
const DefaultSendTimeout = 10 * time.Second

// Sender delivers a single notification
type Sender interface {
	Send(ctx context.Context, notification *Notification) (*Result, error)
}

// Dispatcher sends notifications in the background. Failures are logged and
// never reach the caller.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *logrus.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher around sender
func NewDispatcher(sender Sender, timeout time.Duration, logger *logrus.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{sender: sender, timeout: timeout, logger: logger}
}

// Dispatch starts sending a notification and returns immediately. The send
// outlives ctx's cancellation but is bounded by the dispatcher timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, notification Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.WithField("panic", r).Error("Notification dispatch panicked")
			}
		}()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		fields := logrus.Fields{
			"type":          notification.Type,
			"ticket_number": notification.TicketNumber,
		}
		result, err := d.sender.Send(sendCtx, &notification)
		if err != nil {
			d.logger.WithFields(fields).WithError(err).Warn("Best-effort notification failed")
			return
		}
		if result != nil && result.Skipped {
			d.logger.WithFields(fields).Debug("Best-effort notification skipped")
		}
	}()
}

// Wait blocks until every dispatched notification has finished or ctx is done
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("Stopped waiting for pending notifications")
		return ctx.Err()
	}
}
