package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"clamir/models"
	"clamir/utils"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	RequestSubjectPrefix = "request.clamir"

	OpConnect    = "connect"
	OpDisconnect = "disconnect"
	OpStatus     = "status"
)

// MessageBus is the part of *nats.Conn the bridge uses.
type MessageBus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Bridge exposes the panel buttons as NATS request/reply subjects of the
// form request.clamir.<button>, plus request.clamir.status.
type Bridge struct {
	mu            sync.Mutex
	subscriptions []*nats.Subscription

	panel *Panel
	nc    MessageBus
	log   *zap.Logger
}

func NewBridge(panel *Panel, nc MessageBus, log *zap.Logger) (*Bridge, error) {
	if panel == nil {
		return nil, errors.New("panel cannot be nil")
	}
	if nc == nil {
		return nil, errors.New("nats connection cannot be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Bridge{
		subscriptions: make([]*nats.Subscription, 0),
		panel:         panel,
		nc:            nc,
		log:           log.Named("bridge"),
	}, nil
}

func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	subject := RequestSubjectPrefix + ".*"
	sub, err := b.nc.Subscribe(subject, b.requestHandler(ctx))
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	b.subscriptions = append(b.subscriptions, sub)
	b.log.Info("listening for panel requests", zap.String("subject", subject))
	return nil
}

func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			b.log.Warn("failed to unsubscribe", zap.String("subject", sub.Subject), zap.Error(err))
		}
	}
	b.subscriptions = b.subscriptions[:0]
}

func (b *Bridge) requestHandler(ctx context.Context) nats.MsgHandler {
	return func(msg *nats.Msg) {
		button := utils.GetTokenN(msg.Subject, ".", 2)
		resp := b.handle(ctx, button, msg.Data)

		if msg.Reply == "" {
			return
		}
		data, err := json.Marshal(resp)
		if err != nil {
			b.log.Error("failed to marshal response", zap.Error(err))
			return
		}
		if err := b.nc.Publish(msg.Reply, data); err != nil {
			b.log.Error("failed to publish response", zap.String("subject", msg.Reply), zap.Error(err))
		}
	}
}

func (b *Bridge) handle(ctx context.Context, button string, data []byte) models.NatsResponsePayload {
	switch button {
	case OpConnect:
		outcome, err := b.panel.PressConnect(ctx)
		if err != nil {
			return errorResponse(err)
		}
		if !outcome.Connected {
			return errorResponse(fmt.Errorf("device unreachable after %d attempts (last code %d)", outcome.Attempts, outcome.LastCode))
		}
		return models.NatsResponsePayload{
			Status:  models.StatusSuccess,
			Message: fmt.Sprintf("connected after %d attempts", outcome.Attempts),
		}

	case OpDisconnect:
		b.panel.PressDisconnect()
		return models.NatsResponsePayload{Status: models.StatusSuccess, Message: "disconnect requested"}

	case OpStatus:
		return models.NatsResponsePayload{Status: models.StatusSuccess, Message: availability(b.panel.Status())}
	}

	op, err := ParseOperation(button)
	if err != nil {
		return errorResponse(err)
	}

	var req models.NatsRequestPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse(fmt.Errorf("invalid request payload: %w", err))
	}

	result, err := b.panel.Enter(op, req.A, req.B)
	if err != nil {
		return errorResponse(err)
	}
	return models.NatsResponsePayload{Status: models.StatusSuccess, Message: result}
}

func availability(connected bool) string {
	if connected {
		return models.StateOnline
	}
	return models.StateOffline
}

func errorResponse(err error) models.NatsResponsePayload {
	return models.NatsResponsePayload{Status: models.StatusError, Message: err.Error()}
}
