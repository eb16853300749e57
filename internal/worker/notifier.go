package worker

// notifier.go
// Bridges the alert engine to the async delivery pipeline. Alerts are not
// sent inline: they are enqueued and drained by the worker pool.

import (
	"context"
	"errors"

	"stocktrail/internal/alert"
	"stocktrail/internal/infra"

	"github.com/redis/go-redis/v9"
)

// QueueNotifier implements alert.Notifier on top of the Redis job queue.
type QueueNotifier struct {
	dispatcher *Dispatcher
	rdb        *redis.Client
	mailer     *infra.Mailer
	recipient  string
}

func NewQueueNotifier(dispatcher *Dispatcher, rdb *redis.Client, mailer *infra.Mailer, recipient string) *QueueNotifier {
	return &QueueNotifier{dispatcher: dispatcher, rdb: rdb, mailer: mailer, recipient: recipient}
}

// Probe verifies the delivery channel end to end: the queue must be
// reachable and the email side configured. Enabling notifications only
// succeeds when this passes.
func (n *QueueNotifier) Probe(ctx context.Context) error {
	if !n.mailer.Configured() {
		return errors.New("smtp host not configured")
	}
	if n.recipient == "" {
		return errors.New("alert recipient not configured")
	}
	return n.rdb.Ping(ctx).Err()
}

// Notify enqueues the notification; delivery happens asynchronously.
func (n *QueueNotifier) Notify(ctx context.Context, msg alert.Notification) error {
	payload := NotificationPayload{
		Title: msg.Title,
		Body:  msg.Body,
		Tag:   msg.Tag,
	}
	return n.dispatcher.EnqueueNotification(ctx, msg.Tag, payload)
}
