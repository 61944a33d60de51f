package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"thermoled/internal/thermod"
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
}

// NewRealPublisher connects to broker (e.g. tcp://host:1883) with the given
// client id.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{client: client}, nil
}

// PublishStatus sends a status event at QoS 0; a lost sample is replaced by
// the next one.
func (p *RealPublisher) PublishStatus(mode thermod.Mode, heating bool, at time.Time) error {
	payload, err := FormatStatus(mode, heating, at)
	if err != nil {
		return fmt.Errorf("format status payload: %w", err)
	}
	return p.publish(TopicStatus, 0, true, payload)
}

// PublishModeChange sends a change event at QoS 1.
func (p *RealPublisher) PublishModeChange(target thermod.Mode, at time.Time) error {
	payload, err := FormatChange(target, at)
	if err != nil {
		return fmt.Errorf("format change payload: %w", err)
	}
	return p.publish(TopicChanges, 1, false, payload)
}

// PublishSystem sends a lifecycle event at QoS 1.
func (p *RealPublisher) PublishSystem(event, reason string, at time.Time) error {
	payload, err := FormatSystem(event, reason, at)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(TopicSystem, 1, true, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout on %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish on %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
