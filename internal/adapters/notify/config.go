package notify

import (
	"net/http"

	"inventory-sync/internal/config"
	"inventory-sync/internal/logging"
)

// FromConfig builds a Notifier from every configured channel. A broker that
// cannot be reached is left out. The returned func releases broker resources.
func FromConfig(cfg *config.Config, httpClient *http.Client, logger logging.LoggerService) (*Notifier, func() error) {
	var senders []Sender
	if tg := NewTelegram(cfg.TelegramBot, httpClient); tg != nil {
		senders = append(senders, tg)
	}
	if wa := NewWhatsApp(cfg.Twilio, httpClient); wa != nil {
		senders = append(senders, wa)
	}

	closer := func() error { return nil }
	if cfg.AMQP.URL != "" {
		broker, closeBroker, err := DialBroker(cfg.AMQP)
		if err != nil {
			if logger != nil {
				logger.LogWarning("amqp notifications disabled", "error", err.Error())
			}
		} else {
			senders = append(senders, broker)
			closer = closeBroker
		}
	}
	return New(logger, senders...), closer
}
