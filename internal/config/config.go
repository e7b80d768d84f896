package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Storefronts []StorefrontConfig `yaml:"storefronts"`
	Soap        []SoapConfig       `yaml:"soap"`
	PriceTiers  []PriceTierConfig  `yaml:"priceTiers"`
	Database    DatabaseConfig     `yaml:"database"`
	PriceStore  PriceStoreConfig   `yaml:"priceStore"`
	Sync        SyncConfig         `yaml:"sync"`
	TelegramBot TelegramBotConfig  `yaml:"telegram"`
	Twilio      TwilioConfig       `yaml:"twilio"`
	AMQP        AMQPConfig         `yaml:"amqp"`
}

// StorefrontConfig is one merchant storefront and the upstream source that
// feeds it. Provider "db" reads the local database, anything else names a
// SOAP provider.
type StorefrontConfig struct {
	Client   string `yaml:"client"`
	BaseUrl  string `yaml:"url"`
	Key      string `yaml:"ck"`
	Secret   string `yaml:"cs"`
	Provider string `yaml:"provider"`
	DbID     int    `yaml:"dbId"`
}

type SoapConfig struct {
	Client   string        `yaml:"client"`
	SiretUrl string        `yaml:"siretUrl"`
	Pid      int           `yaml:"ws_pid"`
	Cid      int           `yaml:"ws_cid"`
	Password string        `yaml:"ws_passwd"`
	Bid      int           `yaml:"bid"`
	Timeout  time.Duration `yaml:"timeout"`
}

type PriceTierConfig struct {
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"`
}

type DatabaseConfig struct {
	// Driver is "mysql" or "postgres".
	Driver       string      `yaml:"driver"`
	DSN          string      `yaml:"dsn"`
	Mysql        MysqlConfig `yaml:"mysql"`
	ProductQuery string      `yaml:"productQuery"`
	ChangeQuery  string      `yaml:"changeQuery"`
}

type MysqlConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type PriceStoreConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type SyncConfig struct {
	PageSize       int           `yaml:"pageSize"`
	PageDelay      time.Duration `yaml:"pageDelay"`
	MaxPages       int           `yaml:"maxPages"`
	RetryAttempts  int           `yaml:"retryAttempts"`
	RetryDelay     time.Duration `yaml:"retryDelay"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	Concurrency    int           `yaml:"concurrency"`
}

type TelegramBotConfig struct {
	ChatId string `yaml:"chatId"`
	Token  string `yaml:"token"`
}

type TwilioConfig struct {
	AccountSid string `yaml:"accountSid"`
	AuthToken  string `yaml:"authToken"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`
}

type AMQPConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routingKey"`
}

func (c *Config) Storefront(client string) (StorefrontConfig, error) {
	for _, s := range c.Storefronts {
		if s.Client == client {
			return s, nil
		}
	}
	return StorefrontConfig{}, fmt.Errorf("storefront client not found: %s", client)
}

func (c *Config) SoapProvider(name string) (SoapConfig, error) {
	for _, s := range c.Soap {
		if s.Client == name {
			return s, nil
		}
	}
	return SoapConfig{}, fmt.Errorf("soap provider not found: %s", name)
}

func (s StorefrontConfig) UsesDatabase() bool {
	p := strings.TrimSpace(s.Provider)
	return p == "" || strings.EqualFold(p, "db")
}

func (c *Config) applyDefaults() {
	if c.Sync.PageSize <= 0 {
		c.Sync.PageSize = 50
	}
	if c.Sync.PageDelay <= 0 {
		c.Sync.PageDelay = 300 * time.Millisecond
	}
	if c.Sync.RetryAttempts <= 0 {
		c.Sync.RetryAttempts = 3
	}
	if c.Sync.RetryDelay <= 0 {
		c.Sync.RetryDelay = time.Second
	}
	if c.Sync.RequestTimeout <= 0 {
		c.Sync.RequestTimeout = 40 * time.Second
	}
	if c.Sync.Concurrency <= 0 {
		c.Sync.Concurrency = 1
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.PriceStore.Driver == "" {
		c.PriceStore.Driver = "postgres"
	}
	if c.PriceStore.DSN == "" && c.PriceStore.Driver == c.Database.Driver {
		c.PriceStore.DSN = c.Database.DSN
	}
	for i := range c.Soap {
		if c.Soap[i].Timeout <= 0 {
			c.Soap[i].Timeout = 10 * time.Second
		}
	}
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Storefronts))
	for _, s := range c.Storefronts {
		if strings.TrimSpace(s.Client) == "" {
			return fmt.Errorf("storefront entry without client name")
		}
		if _, ok := seen[s.Client]; ok {
			return fmt.Errorf("duplicate storefront client: %s", s.Client)
		}
		seen[s.Client] = struct{}{}
	}
	for _, tier := range c.PriceTiers {
		if strings.TrimSpace(tier.Name) == "" {
			return fmt.Errorf("price tier without name")
		}
		if _, err := c.SoapProvider(tier.Provider); err != nil {
			return fmt.Errorf("price tier %s: %w", tier.Name, err)
		}
	}
	return nil
}
