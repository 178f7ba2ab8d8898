// Package publish sends accepted observations to an MQTT broker so a remote
// overlay can draw them.
package publish

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/AtlasScout/AtlasScout/agent/go-service/config"
	"github.com/AtlasScout/AtlasScout/agent/go-service/scanner"
)

// ErrNotConnected is returned when the broker connection is down.
var ErrNotConnected = errors.New("mqtt client not connected")

const publishTimeout = 2 * time.Second

// Message is the payload published after every scan.
type Message struct {
	Mode         scanner.Mode          `json:"mode"`
	Timestamp    int64                 `json:"timestamp"`
	Count        int                   `json:"count"`
	Observations []scanner.Observation `json:"observations"`
}

// Publisher publishes scan results under a topic prefix:
// <prefix>/<mode> receives each scan, <prefix>/latest the most recent one.
type Publisher struct {
	client mqtt.Client
	prefix string
	qos    byte
	retain bool
	now    func() time.Time
}

// NewPublisher wraps an already configured client.
func NewPublisher(client mqtt.Client, prefix string, qos byte, retain bool) *Publisher {
	if qos > 2 {
		qos = 0
	}
	return &Publisher{
		client: client,
		prefix: prefix,
		qos:    qos,
		retain: retain,
		now:    time.Now,
	}
}

// Connect dials the broker described by cfg. It returns nil, nil when MQTT is
// disabled.
func Connect(cfg config.MQTTConfig) (*Publisher, error) {
	if !cfg.Enabled {
		log.Info().Msg("mqtt disabled")
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info().Str("broker", cfg.Broker).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", cfg.Broker).Msg("mqtt connection lost")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Broker, token.Error())
	}
	return NewPublisher(client, cfg.Topic, cfg.QoS, cfg.Retain), nil
}

// Publish sends the observations of one scan. An empty scan is published too,
// so overlays can clear stale markers.
func (p *Publisher) Publish(mode scanner.Mode, obs []scanner.Observation) error {
	if p == nil {
		return nil
	}
	if p.client == nil || !p.client.IsConnected() {
		return ErrNotConnected
	}
	if obs == nil {
		obs = []scanner.Observation{}
	}

	payload, err := sonic.Marshal(Message{
		Mode:         mode,
		Timestamp:    p.now().Unix(),
		Count:        len(obs),
		Observations: obs,
	})
	if err != nil {
		return fmt.Errorf("marshaling observations: %w", err)
	}

	for _, topic := range []string{p.prefix + "/" + string(mode), p.prefix + "/latest"} {
		token := p.client.Publish(topic, p.qos, p.retain, payload)
		if token.WaitTimeout(publishTimeout) && token.Error() != nil {
			return fmt.Errorf("publishing to %s: %w", topic, token.Error())
		}
	}

	log.Debug().
		Str("topic", p.prefix).
		Str("mode", string(mode)).
		Int("count", len(obs)).
		Msg("observations published")
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
