package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"inventory-sync/internal/config"
)

const twilioAPI = "https://api.twilio.com"

// WhatsApp sends messages through the Twilio WhatsApp API.
type WhatsApp struct {
	creds      config.TwilioConfig
	apiBase    string
	httpClient *http.Client
}

// NewWhatsApp returns nil when the Twilio account is not configured.
func NewWhatsApp(creds config.TwilioConfig, httpClient *http.Client) *WhatsApp {
	if creds.AccountSid == "" || creds.AuthToken == "" || creds.From == "" || creds.To == "" {
		return nil
	}
	return &WhatsApp{creds: creds, apiBase: twilioAPI, httpClient: httpClientOrDefault(httpClient)}
}

func (w *WhatsApp) WithAPIBase(base string) *WhatsApp {
	w.apiBase = strings.TrimRight(base, "/")
	return w
}

func (w *WhatsApp) Name() string { return "whatsapp" }

func (w *WhatsApp) Send(ctx context.Context, subject, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", w.apiBase, url.PathEscape(w.creds.AccountSid))

	form := url.Values{}
	form.Set("From", whatsappAddress(w.creds.From))
	form.Set("To", whatsappAddress(w.creds.To))
	form.Set("Body", formatMessage("*", subject, body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(w.creds.AccountSid, w.creds.AuthToken)
	return doRequest(w.httpClient, req, w.Name())
}

func whatsappAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
