package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clamir/models"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const NotifySubjectPrefix = "clamir.notify"

func InitNats(url string, log *zap.Logger) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts := []nats.Option{
		nats.Name("clamir-console"),
		// keep retrying in the background when the server is not up yet
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect error: %w", err)
	}
	return nc, nil
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsNotifier publishes connect notifications to clamir.notify.<kind>. The
// notification counts as acknowledged once the publish returns.
type NatsNotifier struct {
	pub Publisher
}

func NewNatsNotifier(pub Publisher) (*NatsNotifier, error) {
	if pub == nil {
		return nil, errors.New("nats publisher cannot be nil")
	}
	return &NatsNotifier{pub: pub}, nil
}

func (n *NatsNotifier) Notify(ctx context.Context, notification models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", NotifySubjectPrefix, notification.Kind)
	if err := n.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS subject '%s': %w", subject, err)
	}
	return nil
}
