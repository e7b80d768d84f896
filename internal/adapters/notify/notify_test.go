package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"inventory-sync/internal/config"
	"inventory-sync/internal/logging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegram_Send(t *testing.T) {
	var got telegramRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram(config.TelegramBotConfig{ChatId: "42", Token: "tok"}, srv.Client()).WithAPIBase(srv.URL)
	require.NoError(t, tg.Send(context.Background(), "Inventory sync", "acme: created=1"))

	assert.Equal(t, "/bottok/sendMessage", path)
	assert.Equal(t, "42", got.ChatId)
	assert.Equal(t, "ℹ️ Inventory sync\nacme: created=1", got.Text)
}

func TestTelegram_MissingCredentials(t *testing.T) {
	assert.Nil(t, NewTelegram(config.TelegramBotConfig{ChatId: "42"}, nil))
}

func TestWhatsApp_Send(t *testing.T) {
	var form url.Values
	var user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC1/Messages.json", r.URL.Path)
		user, pass, _ = r.BasicAuth()
		raw, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(raw))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	wa := NewWhatsApp(config.TwilioConfig{AccountSid: "AC1", AuthToken: "secret", From: "+100", To: "whatsapp:+200"}, srv.Client()).
		WithAPIBase(srv.URL)
	require.NoError(t, wa.Send(context.Background(), "Prices", "ok"))

	assert.Equal(t, "AC1", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "whatsapp:+100", form.Get("From"))
	assert.Equal(t, "whatsapp:+200", form.Get("To"))
	assert.Equal(t, "* Prices\nok", form.Get("Body"))
}

func TestWhatsApp_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid To"}`))
	}))
	defer srv.Close()

	wa := NewWhatsApp(config.TwilioConfig{AccountSid: "AC1", AuthToken: "x", From: "1", To: "2"}, srv.Client()).WithAPIBase(srv.URL)
	err := wa.Send(context.Background(), "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid To")
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestBroker_Send(t *testing.T) {
	ch := &fakeChannel{}
	b := newBroker(ch, "", "inventory.summary")
	b.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, b.Send(context.Background(), "Inventory sync", "acme: created=1"))

	assert.Equal(t, "inventory.summary", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.JSONEq(t, `{"subject":"Inventory sync","summary":"acme: created=1","sentAt":"2024-05-01T12:00:00Z"}`, string(ch.msg.Body))
}

type failingSender struct{ calls int }

func (f *failingSender) Name() string { return "failing" }
func (f *failingSender) Send(context.Context, string, string) error {
	f.calls++
	return errors.New("down")
}

type okSender struct{ bodies []string }

func (o *okSender) Name() string { return "ok" }
func (o *okSender) Send(_ context.Context, _, body string) error {
	o.bodies = append(o.bodies, body)
	return nil
}

func TestNotifier_FanOutIgnoresFailures(t *testing.T) {
	bad := &failingSender{}
	good := &okSender{}
	n := New(logging.Discard(), bad, good)
	require.True(t, n.Enabled())

	n.Notify(context.Background(), "subject", "body")

	assert.Equal(t, 1, bad.calls)
	assert.Equal(t, []string{"body"}, good.bodies)
}

func TestFromConfig_NoChannels(t *testing.T) {
	n, closer := FromConfig(&config.Config{}, nil, nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, closer())
	n.Notify(context.Background(), "s", "b")
}
