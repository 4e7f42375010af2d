package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dummyfinance/nftd/nft"
)

// Messenger delivers the receive notifications produced by send actions to
// the outside world.
type Messenger interface {
	Deliver(ctx context.Context, msg *nft.OutboundMessage) error
}

// LogMessenger records notifications without delivering them anywhere.
type LogMessenger struct {
	log *slog.Logger
}

func (m *LogMessenger) Deliver(ctx context.Context, msg *nft.OutboundMessage) error {
	m.log.Info("receive notification", "target", msg.Target, "sender", msg.Sender, "token_id", msg.TokenID)
	return nil
}

// WebhookMessenger posts each notification as JSON to a fixed URL.
type WebhookMessenger struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

func NewWebhookMessenger(url string, log *slog.Logger) *WebhookMessenger {
	return &WebhookMessenger{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (m *WebhookMessenger) Deliver(ctx context.Context, msg *nft.OutboundMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s: %s", m.url, resp.Status)
	}
	return nil
}
