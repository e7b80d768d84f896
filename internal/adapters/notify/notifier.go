package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inventory-sync/internal/logging"
)

const defaultTimeout = 15 * time.Second

// Sender delivers one message over a single channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, subject, body string) error
}

// Notifier fans a run summary out to every configured channel. Delivery is
// best effort: failures are logged and never returned.
type Notifier struct {
	senders []Sender
	logger  logging.LoggerService
}

func New(logger logging.LoggerService, senders ...Sender) *Notifier {
	active := make([]Sender, 0, len(senders))
	for _, s := range senders {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Notifier{senders: active, logger: logger}
}

func (n *Notifier) Enabled() bool {
	return n != nil && len(n.senders) > 0
}

func (n *Notifier) Notify(ctx context.Context, subject, body string) {
	if n == nil {
		return
	}
	for _, s := range n.senders {
		if err := s.Send(ctx, subject, body); err != nil {
			if n.logger != nil {
				n.logger.LogError("notification failed", err, "channel", s.Name())
			}
			continue
		}
		if n.logger != nil {
			n.logger.Log("notification sent", "channel", s.Name())
		}
	}
}

func formatMessage(icon, subject, body string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "-"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Sprintf("%s %s", icon, subject)
	}
	return fmt.Sprintf("%s %s\n%s", icon, subject, body)
}

// doRequest sends req and fails on any non-2xx response.
func doRequest(client *http.Client, req *http.Request, channel string) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s send: %w", channel, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s send failed: %s: %s", channel, resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}
