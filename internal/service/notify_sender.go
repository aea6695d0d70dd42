package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tourguard/internal/config"
	"tourguard/internal/domain"
	"tourguard/pkg/e"
)

// NotifyQueueReader is the consuming side of the SOS notification queue.
type NotifyQueueReader interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.SOSNotification, error)
}

// NotifySender drains the queue and POSTs each SOS notification to the
// configured webhook. It never feeds back into the request path: a payload
// that exhausts its retries is dropped with a warning.
type NotifySender struct {
	logger *slog.Logger
	cfg    config.WebhookConfig
	queue  NotifyQueueReader
	http   *http.Client
}

func NewNotifySender(logger *slog.Logger, cfg config.WebhookConfig, q NotifyQueueReader) *NotifySender {
	return &NotifySender{
		logger: logger,
		cfg:    cfg,
		queue:  q,
		http:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *NotifySender) Run(ctx context.Context) {
	s.logger.Info("notify sender started", slog.String("url", s.cfg.URL))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("notify sender stopped", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		payload, err := s.queue.BRPop(ctx, 5*time.Second)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			s.logger.Error("notify queue pop failed", slog.Any("error", err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		s.sendWithRetry(ctx, payload)
	}
}

func (s *NotifySender) sendWithRetry(ctx context.Context, p domain.SOSNotification) {
	const maxRetries = 3

	body, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("marshal sos notification failed", slog.String("error", err.Error()))
		return
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
		if err != nil {
			s.logger.Error("create notification request failed", slog.String("error", err.Error()))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		reason := "unknown"
		if err != nil {
			reason = err.Error()
		} else if resp != nil {
			reason = resp.Status
		}

		s.logger.Warn("sos notification delivery failed",
			slog.Int("attempt", attempt),
			slog.Int64("sos_id", p.SOSID),
			slog.String("reason", reason),
		)

		time.Sleep(time.Duration(attempt) * time.Second)
	}

	s.logger.Warn("sos notification dropped after retries", slog.Int64("sos_id", p.SOSID))
}
