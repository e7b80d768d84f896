package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the environment and, when path is not empty, overlays the YAML
// file on top of it.
func Load(path string) (*Config, error) {
	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	if cfg.Storefronts, err = listFromEnv[StorefrontConfig]("CLIENTS_API_JSON"); err != nil {
		return nil, err
	}
	if cfg.Soap, err = listFromEnv[SoapConfig]("SOAP_CREDENTIALS_JSON"); err != nil {
		return nil, err
	}
	if cfg.PriceTiers, err = listFromEnv[PriceTierConfig]("PRICE_TIERS_JSON"); err != nil {
		return nil, err
	}

	cfg.Database = DatabaseConfig{
		Driver:       stringWithDefault("DATABASE_DRIVER", ""),
		DSN:          stringWithDefault("DATABASE_URL", ""),
		ProductQuery: stringWithDefault("PRODUCT_QUERY", ""),
		ChangeQuery:  stringWithDefault("CHANGE_QUERY", ""),
		Mysql: MysqlConfig{
			Host:     stringWithDefault("MYSQL_HOST", ""),
			Username: stringWithDefault("MYSQL_USER", ""),
			Password: stringWithDefault("MYSQL_PASSWORD", ""),
			Database: stringWithDefault("MYSQL_DATABASE", ""),
		},
	}
	if cfg.Database.Mysql.Port, err = intWithDefault("MYSQL_PORT", 3306); err != nil {
		return nil, err
	}
	cfg.PriceStore = PriceStoreConfig{
		Driver: stringWithDefault("PRICE_STORE_DRIVER", ""),
		DSN:    stringWithDefault("PRICE_STORE_DSN", ""),
	}

	if cfg.Sync.PageSize, err = intWithDefault("SYNC_PAGE_SIZE", 50); err != nil {
		return nil, err
	}
	if cfg.Sync.MaxPages, err = intWithDefault("SYNC_MAX_PAGES", 0); err != nil {
		return nil, err
	}
	if cfg.Sync.RetryAttempts, err = intWithDefault("SYNC_RETRY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.Sync.Concurrency, err = intWithDefault("SYNC_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.Sync.PageDelay, err = durationWithDefault("SYNC_PAGE_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.Sync.RetryDelay, err = durationWithDefault("SYNC_RETRY_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.Sync.RequestTimeout, err = durationWithDefault("SYNC_REQUEST_TIMEOUT", 0); err != nil {
		return nil, err
	}

	cfg.TelegramBot = TelegramBotConfig{
		ChatId: stringWithDefault("TELEGRAM_CHAT_ID", ""),
		Token:  stringWithDefault("TELEGRAM_TOKEN", ""),
	}
	cfg.Twilio = TwilioConfig{
		AccountSid: stringWithDefault("TWILIO_ACCOUNT_SID", ""),
		AuthToken:  stringWithDefault("TWILIO_AUTH_TOKEN", ""),
		From:       stringWithDefault("TWILIO_FROM_WHATSAPP", ""),
		To:         stringWithDefault("TWILIO_TO_WHATSAPP", ""),
	}
	cfg.AMQP = AMQPConfig{
		URL:        stringWithDefault("RABBITMQ_URI", ""),
		Exchange:   stringWithDefault("RABBITMQ_EXCHANGE", ""),
		RoutingKey: stringWithDefault("RABBITMQ_ROUTING_KEY", "inventory.sync"),
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// RequireDatabase fails when no local database is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.DSN != "" {
		return nil
	}
	if c.Database.Driver == "mysql" && c.Database.Mysql.Host != "" {
		return nil
	}
	_, err := requiredString("DATABASE_URL")
	return err
}
