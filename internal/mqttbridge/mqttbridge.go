// Package mqttbridge feeds device reports arriving over MQTT into the same
// ingest path as the HTTP endpoint and publishes the reply.
package mqttbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/itsatony/soilsense/internal/config"
	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const handleTimeout = 10 * time.Second

// Ingestor handles one parsed report. hubservice.HubService implements it.
type Ingestor interface {
	HandleReport(ctx context.Context, reading *models.DeviceReading) (*models.IngestResponse, error)
}

type Bridge struct {
	cfg    config.MQTTConfig
	ingest Ingestor
	client mqtt.Client
}

func New(cfg config.MQTTConfig, ingest Ingestor) *Bridge {
	return &Bridge{cfg: cfg, ingest: ingest}
}

// Start connects to the broker, retrying with backoff, and subscribes to the
// report topic. The subscription is renewed on every reconnect.
func (b *Bridge) Start(ctx context.Context) error {
	opts := b.clientOptions()

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(func() error {
		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			nuts.L.Warnf("[MQTT] Failed to connect to %s: %v", b.cfg.Broker, token.Error())
			return token.Error()
		}
		b.client = client
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, 4), ctx))
	if err != nil {
		return fmt.Errorf("could not connect to MQTT broker %s: %w", b.cfg.Broker, err)
	}

	nuts.L.Infof("[MQTT] Connected to %s", b.cfg.Broker)
	return nil
}

// clientOptions builds the paho options. Ordered delivery is off: each
// message handler runs on its own goroutine, so handlers may block on
// ingest I/O and on the reply's publish token without stalling the paho
// router that processes acknowledgements.
func (b *Bridge) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(b.cfg.Broker)
	opts.SetClientID(b.cfg.ClientID)
	opts.SetUsername(b.cfg.Username)
	opts.SetPassword(b.cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		token := c.Subscribe(b.cfg.ReportTopic, b.cfg.QoS, b.onMessage)
		if token.Wait() && token.Error() != nil {
			nuts.L.Errorf("[MQTT] Subscribe to %s failed: %v", b.cfg.ReportTopic, token.Error())
			return
		}
		nuts.L.Infof("[MQTT] Subscribed to %s", b.cfg.ReportTopic)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		nuts.L.Warnf("[MQTT] Connection lost: %v", err)
	})
	return opts
}

// Stop disconnects from the broker.
func (b *Bridge) Stop() {
	if b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(250)
		nuts.L.Infof("[MQTT] Disconnected")
	}
}

func (b *Bridge) onMessage(c mqtt.Client, m mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	reply := b.handleMessage(ctx, m.Payload())
	token := c.Publish(b.cfg.ResponseTopic, b.cfg.QoS, false, reply)
	if !token.WaitTimeout(handleTimeout) {
		nuts.L.Warnf("[MQTT] Publishing reply to %s timed out", b.cfg.ResponseTopic)
		return
	}
	if token.Error() != nil {
		nuts.L.Errorf("[MQTT] Publishing reply to %s failed: %v", b.cfg.ResponseTopic, token.Error())
	}
}

// handleMessage runs one payload through the ingest path and returns the
// JSON reply. It always returns a reply, even if ingest panics.
func (b *Bridge) handleMessage(ctx context.Context, payload []byte) (reply []byte) {
	defer func() {
		if r := recover(); r != nil {
			nuts.L.Errorf("[MQTT] Panic while handling report: %v", r)
			reply = encode(&models.IngestResponse{Success: false, Error: "internal error"})
		}
	}()

	reading, err := models.ParseDeviceReading(payload)
	if err != nil {
		nuts.L.Warnf("[MQTT] Dropping malformed report: %v", err)
		return encode(&models.IngestResponse{Success: false, Error: "report must be a JSON object"})
	}

	resp, err := b.ingest.HandleReport(ctx, reading)
	if err != nil {
		nuts.L.Errorf("[MQTT] Ingest failed: %v", err)
	}
	return encode(resp)
}

func encode(resp *models.IngestResponse) []byte {
	b, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"success":false,"error":"internal error"}`)
	}
	return b
}
