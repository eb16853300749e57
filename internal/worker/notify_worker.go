package worker

// notify_worker.go
// Processes notification jobs from QueueNotifications and delivers them over
// the email channel. Failed deliveries are re-enqueued with an attempt
// counter; jobs that exhaust their attempts go to the DLQ.

import (
	"context"
	"encoding/json"

	"stocktrail/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxNotifyAttempts = 3

// NotificationPayload is the job envelope sent to QueueNotifications.
type NotificationPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Tag      string `json:"tag"`
	Attempts int    `json:"attempts"`
}

// NotifyWorker delivers queued notifications via SMTP.
type NotifyWorker struct {
	mailer    *infra.Mailer
	rdb       *redis.Client
	recipient string
}

func NewNotifyWorker(mailer *infra.Mailer, rdb *redis.Client, recipient string) *NotifyWorker {
	return &NotifyWorker{mailer: mailer, rdb: rdb, recipient: recipient}
}

// Process sends the notification email, retrying transient failures.
func (w *NotifyWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return
	}
	if w.recipient == "" {
		log.Warn().Msg("notify_worker: no recipient configured — skipping")
		return
	}

	if err := w.mailer.Send(w.recipient, payload.Title, payload.Body); err != nil {
		payload.Attempts++
		if payload.Attempts >= maxNotifyAttempts {
			SendToDLQ(ctx, w.rdb, QueueNotifications, "notification", raw,
				"max delivery attempts exceeded: "+err.Error(), payload.Attempts)
			return
		}

		data, mErr := json.Marshal(payload)
		if mErr != nil {
			log.Error().Err(mErr).Msg("notify_worker: re-enqueue marshal failed")
			return
		}
		job := Job{Type: "notification", Payload: data}
		encoded, mErr := json.Marshal(job)
		if mErr != nil {
			log.Error().Err(mErr).Msg("notify_worker: re-enqueue marshal failed")
			return
		}
		if pushErr := w.rdb.LPush(ctx, QueueNotifications, encoded).Err(); pushErr != nil {
			log.Error().Err(pushErr).Msg("notify_worker: re-enqueue failed")
			return
		}
		log.Warn().Err(err).Int("attempt", payload.Attempts).Str("tag", payload.Tag).
			Msg("notify_worker: delivery failed, re-enqueued")
		return
	}

	log.Info().Str("to", w.recipient).Str("tag", payload.Tag).Msg("notify_worker: notification delivered")
}
