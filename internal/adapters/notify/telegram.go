package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"inventory-sync/internal/config"
)

const (
	telegramAPI = "https://api.telegram.org"
	iconInfo    = "ℹ️"
)

type Telegram struct {
	creds      config.TelegramBotConfig
	apiBase    string
	httpClient *http.Client
}

type telegramRequest struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

// NewTelegram returns nil when the bot credentials are incomplete.
func NewTelegram(creds config.TelegramBotConfig, httpClient *http.Client) *Telegram {
	if creds.ChatId == "" || creds.Token == "" {
		return nil
	}
	return &Telegram{creds: creds, apiBase: telegramAPI, httpClient: httpClientOrDefault(httpClient)}
}

func (t *Telegram) WithAPIBase(base string) *Telegram {
	t.apiBase = strings.TrimRight(base, "/")
	return t
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(ctx context.Context, subject, body string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.creds.Token)

	bodyBytes, err := json.Marshal(telegramRequest{
		ChatId: t.creds.ChatId,
		Text:   formatMessage(iconInfo, subject, body),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t.httpClient, req, t.Name())
}
