package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/irdesk/internal/config"
	"github.com/sirupsen/logrus"
)

const popTimeout = 5 * time.Second

// Worker drains the communication queue and delivers events to the configured webhook.
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		sleep: sleepCtx,
	}
}

// Start runs the delivery loop in a goroutine until ctx is cancelled.
// The returned channel is closed once the loop has exited.
func (w *Worker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	w.logger.Info("Starting communication worker...")
	go func() {
		defer close(done)
		for {
			if ctx.Err() != nil {
				w.logger.Info("Stopping communication worker.")
				return
			}

			result, err := w.redisClient.BRPop(ctx, popTimeout, queueKey).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue
				}
				w.logger.WithError(err).Error("Failed to pop communication event from Redis")
				_ = w.sleep(ctx, w.cfg.WebhookTimeout)
				continue
			}

			// result[0] is the key, result[1] the payload
			payload := result[1]
			var event Event
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				w.logger.WithError(err).Error("Failed to unmarshal communication event from Redis")
				continue
			}

			w.process(ctx, event, []byte(payload))
		}
	}()
	return done
}

func (w *Worker) process(ctx context.Context, event Event, payload []byte) {
	log := w.logger.WithFields(logrus.Fields{
		"event_id":        event.ID,
		"organization_id": event.OrganizationID,
		"channel":         event.Channel,
	})
	log.Debug("Processing communication event...")

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping delivery.")
		return
	}

	if err := w.deliver(ctx, log, payload); err != nil {
		log.WithError(err).Error("Failed to deliver communication event")
		return
	}
	log.Info("Communication delivered successfully.")
}

// deliver posts payload, retrying with exponential backoff on transport errors and non-2xx responses.
func (w *Worker) deliver(ctx context.Context, log *logrus.Entry, payload []byte) error {
	maxRetries := w.cfg.WebhookMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	delay := w.cfg.WebhookBaseDelay

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = w.send(ctx, payload)
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		log.WithError(lastErr).Warnf("Webhook attempt %d failed. Retrying in %v.", attempt, delay)
		if err := w.sleep(ctx, delay); err != nil {
			return err
		}
		delay *= 2
	}
	return fmt.Errorf("giving up after %d attempts: %w", maxRetries, lastErr)
}

func (w *Worker) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.WebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", Sign(payload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of data keyed with secret.
func Sign(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
