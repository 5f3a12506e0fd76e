package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/notify"
)

// PubSubHandler consumes reminder scheduling messages and collection
// triggers from a shared subscription.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	reminderJob      *ReminderJob
	collectJob       *CollectJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	ReminderJob      *ReminderJob

	// CollectJob is optional; without one, collect triggers are acked and
	// ignored (the deployment runs the collector on its own schedule).
	CollectJob *CollectJob

	Logger zerolog.Logger
}

// JobTypeCollect triggers a reading collection pass.
const JobTypeCollect = "collect_readings"

// collectMessage is the shape of a collection trigger message.
type collectMessage struct {
	JobType string `json:"job_type"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings. Reminder handling sleeps out the delay,
	// so extensions must comfortably cover MaxReminderDelay.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = MaxReminderDelay + 5*time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		reminderJob:      cfg.ReminderJob,
		collectJob:       cfg.CollectJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	kind, err := h.dispatch(ctx, msg.Data)
	if err != nil {
		logger.Error().Err(err).Str("kind", kind).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("kind", kind).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}

// dispatch routes a message by its type field. Unknown messages are treated
// as handled so they are not redelivered forever.
func (h *PubSubHandler) dispatch(ctx context.Context, data []byte) (string, error) {
	var n notify.Notification
	if err := json.Unmarshal(data, &n); err == nil && n.Type == notify.MessageTypeSchedule {
		return "reminder", h.reminderJob.Handle(ctx, &n)
	}

	var cm collectMessage
	if err := json.Unmarshal(data, &cm); err == nil && cm.JobType == JobTypeCollect {
		if h.collectJob == nil {
			h.logger.Warn().Msg("collect trigger received but no collect job configured")
			return "collect", nil
		}
		_, err := h.collectJob.Run(ctx)
		return "collect", err
	}

	h.logger.Warn().Str("payload", string(data)).Msg("unknown message, acking")
	return "unknown", nil
}
