package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/forgeo/crm-audit-server/internal/config"
)

const (
	defaultTopicPrefix = "crm-audit"
	connectTimeout     = 10 * time.Second
	publishTimeout     = 5 * time.Second
	disconnectQuiesce  = 250
)

// mqttClient is the subset of mqtt.Client used for publishing
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type mqttPublisher struct {
	client mqttClient
	prefix string
	qos    byte
}

// NewMQTTPublisher connects to the configured broker
func NewMQTTPublisher(cfg *config.MQTTConfig) (Publisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "crm-audit-" + uuid.NewString()[:8]
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, err)
	}

	return newMQTTPublisher(client, cfg.TopicPrefix, cfg.QoS), nil
}

func newMQTTPublisher(client mqttClient, prefix string, qos byte) *mqttPublisher {
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return &mqttPublisher{client: client, prefix: prefix, qos: qos}
}

// Topic returns {prefix}/{kind}/{user}/{status}
func (p *mqttPublisher) topic(event RunFinished) string {
	return fmt.Sprintf("%s/%s/%s/%s", p.prefix, event.Kind, event.UserID, event.Status)
}

func (p *mqttPublisher) PublishRunFinished(ctx context.Context, event RunFinished) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode run event: %w", err)
	}

	topic := p.topic(event)
	token := p.client.Publish(topic, p.qos, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("failed to publish to topic %s: timed out", topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(disconnectQuiesce)
}
