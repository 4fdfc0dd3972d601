// Package notify sends best-effort email notifications. A send failure is
// reported through Result and logged; it never reaches the caller that
// triggered it.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Result is the outcome of a send. Err is set when Success is false.
type Result struct {
	Success   bool
	MessageID string
	Err       error
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) Result
}

// LogSender logs messages instead of sending them. It is used when no
// mail provider is configured.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) Result {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("notification not sent: no mail provider configured",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return Result{Success: true}
}

// ResultRecorder counts dispatch outcomes.
type ResultRecorder interface {
	NotificationResult(success bool)
}

// Dispatcher runs sends after the triggering transaction committed.
type Dispatcher struct {
	sender   Sender
	log      *slog.Logger
	timeout  time.Duration
	recorder ResultRecorder
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A nil logger uses slog.Default and a
// non-positive timeout defaults to 20s.
func NewDispatcher(sender Sender, log *slog.Logger, timeout time.Duration, recorder ResultRecorder) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Dispatcher{sender: sender, log: log, timeout: timeout, recorder: recorder}
}

// AfterCommit sends msg in the background. The send is detached from ctx
// cancellation but keeps its values, and is bounded by the dispatcher timeout.
func (d *Dispatcher) AfterCommit(ctx context.Context, msg Message) {
	if d == nil || d.sender == nil {
		return
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		d.deliver(sendCtx, msg)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification send panicked", "subject", msg.Subject, "panic", r)
			d.record(false)
		}
	}()

	res := d.sender.Send(ctx, msg)
	if !res.Success {
		d.log.Warn("notification send failed", "subject", msg.Subject, "error", res.Err)
		d.record(false)
		return
	}
	d.log.Info("notification sent", "subject", msg.Subject, "message_id", res.MessageID)
	d.record(true)
}

func (d *Dispatcher) record(success bool) {
	if d.recorder != nil {
		d.recorder.NotificationResult(success)
	}
}

// Wait blocks until all in-flight sends finish.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
