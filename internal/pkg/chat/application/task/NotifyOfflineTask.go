package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	queue "github.com/Hahanic/momo-messenger/internal/infrastructure/queue/port"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

// TypeNotifyOffline is the task type for push notification of participants who
// had no live connection when a message arrived.
const TypeNotifyOffline = "chat:notify_offline"

// notifyQueue is the asynq queue these tasks run on.
const notifyQueue = "chat"

// NotifyOfflinePayload is the wire shape of a TypeNotifyOffline task.
type NotifyOfflinePayload struct {
	ConversationID string   `json:"conversation_id"`
	MessageID      string   `json:"message_id"`
	SenderID       string   `json:"sender_id"`
	RecipientIDs   []string `json:"recipient_ids"`
}

// OfflineNotifyProducer enqueues notification tasks. It satisfies the ingestion
// pipeline's notifier port; enqueue failures are logged and swallowed since the
// message is already durable.
type OfflineNotifyProducer struct {
	client queue.Client
	logger zerolog.Logger
}

func NewOfflineNotifyProducer(client queue.Client, logger zerolog.Logger) *OfflineNotifyProducer {
	return &OfflineNotifyProducer{client: client, logger: logger}
}

var _ usecase.OfflineNotifier = (*OfflineNotifyProducer)(nil)

func (p *OfflineNotifyProducer) NotifyOffline(ctx context.Context, conversationID, messageID, senderID string, recipientIDs []string) {
	payload, err := json.Marshal(NotifyOfflinePayload{
		ConversationID: conversationID,
		MessageID:      messageID,
		SenderID:       senderID,
		RecipientIDs:   recipientIDs,
	})
	if err != nil {
		return
	}
	_, err = p.client.Enqueue(ctx, queue.Task{Type: TypeNotifyOffline, Payload: payload}, queue.EnqueueOption{
		Queue:    notifyQueue,
		MaxRetry: 5,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("messageId", messageID).Msg("enqueue offline notification failed")
	}
}

// NotifyOfflineHandler delivers queued notifications to an external push
// gateway. With no PUSH_GATEWAY_URL configured it logs and acks, so local
// setups run without a gateway.
type NotifyOfflineHandler struct {
	gatewayURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewNotifyOfflineHandler(logger zerolog.Logger) *NotifyOfflineHandler {
	return &NotifyOfflineHandler{
		gatewayURL: os.Getenv("PUSH_GATEWAY_URL"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Register wires the handler onto the worker server.
func (h *NotifyOfflineHandler) Register(srv queue.Server) {
	srv.Register(TypeNotifyOffline, h.Handle)
}

func (h *NotifyOfflineHandler) Handle(ctx context.Context, t queue.Task) error {
	var payload NotifyOfflinePayload
	if err := json.Unmarshal(t.Payload, &payload); err != nil {
		// Malformed payloads never succeed on retry.
		h.logger.Error().Err(err).Msg("dropping malformed notification task")
		return nil
	}

	if h.gatewayURL == "" {
		h.logger.Info().
			Str("messageId", payload.MessageID).
			Int("recipients", len(payload.RecipientIDs)).
			Msg("push gateway not configured, skipping notification")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.gatewayURL, bytes.NewReader(t.Payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway: status %d", resp.StatusCode)
	}
	return nil
}
