package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"clamir/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// offlineWill is the retained availability payload the broker publishes when
// the client drops without disconnecting.
var offlineWill = []byte(`{"state":"` + models.StateOffline + `"}`)

type MqttService struct {
	id string

	client mqtt.Client
	log    *zap.Logger

	mu      sync.Mutex
	running bool
}

type MqttOptions struct {
	ID       string
	Broker   string
	User     string
	Password string

	// WillTopic, when set, receives a retained offline payload if the
	// client drops without disconnecting.
	WillTopic string
}

func NewMqttService(opts MqttOptions, log *zap.Logger) *MqttService {
	clientOpts := mqtt.NewClientOptions().AddBroker(opts.Broker).SetClientID(opts.ID).SetOrderMatters(false)
	clientOpts.SetKeepAlive(60 * time.Second)
	clientOpts.SetConnectRetry(true)
	clientOpts.SetAutoReconnect(true)

	clientOpts.SetUsername(opts.User)
	clientOpts.SetPassword(opts.Password)

	if opts.WillTopic != "" {
		clientOpts.SetBinaryWill(opts.WillTopic, offlineWill, 1, true)
	}

	if log == nil {
		log = zap.NewNop()
	}
	service := &MqttService{
		id:  opts.ID,
		log: log.Named("mqtt"),
	}

	clientOpts.SetOnConnectHandler(func(mqtt.Client) {
		service.log.Info("MQTT client connected")
	})
	clientOpts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		service.log.Warn("MQTT connection lost", zap.Error(err))
	})

	service.client = mqtt.NewClient(clientOpts)

	return service
}

func (s *MqttService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("MQTT client service is already running")
	}
	s.log.Info("starting MQTT client service", zap.String("id", s.id))

	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect MQTT client: %w", token.Error())
	}
	s.running = true
	return nil
}

func (s *MqttService) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	if s.client.IsConnected() {
		s.client.Disconnect(250)
	}
	s.log.Info("MQTT client service stopped")
}

func (s *MqttService) PublishMessage(topic string, qos byte, retained bool, payload interface{}) error {
	if !s.client.IsConnected() {
		return errors.New("MQTT client not connected, cannot publish")
	}
	token := s.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish message to topic '%s': %w", topic, token.Error())
	}
	s.log.Debug("published message", zap.String("topic", topic))
	return nil
}

// MessagePublisher is satisfied by *MqttService.
type MessagePublisher interface {
	PublishMessage(topic string, qos byte, retained bool, payload interface{}) error
}

func AvailabilityTopic(deviceName string) string {
	return fmt.Sprintf("clamir/%s/availability", deviceName)
}

// AvailabilityPublisher keeps a retained online/offline state for one device.
type AvailabilityPublisher struct {
	pub   MessagePublisher
	topic string
}

func NewAvailabilityPublisher(pub MessagePublisher, deviceName string) (*AvailabilityPublisher, error) {
	if pub == nil {
		return nil, errors.New("mqtt publisher cannot be nil")
	}
	if deviceName == "" {
		return nil, errors.New("device name cannot be empty")
	}
	return &AvailabilityPublisher{pub: pub, topic: AvailabilityTopic(deviceName)}, nil
}

func (p *AvailabilityPublisher) PublishAvailability(state string) error {
	if state != models.StateOnline && state != models.StateOffline {
		return fmt.Errorf("unknown availability state %q", state)
	}
	data, err := json.Marshal(models.ConnectionState{State: state})
	if err != nil {
		return err
	}
	return p.pub.PublishMessage(p.topic, 1, true, data)
}
