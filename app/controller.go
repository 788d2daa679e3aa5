package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clamir/device"
	"clamir/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttemptRecorder persists one connect attempt.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, rec AttemptRecord) error
}

// AvailabilityPublisher announces whether the device is reachable.
type AvailabilityPublisher interface {
	PublishAvailability(state string) error
}

// ConnectOutcome summarizes one connect sequence. Connected is true only when
// a connect call returned 0.
type ConnectOutcome struct {
	SessionID uuid.UUID
	Connected bool
	Attempts  int
	LastCode  int
}

type ConnectionController struct {
	mu sync.Mutex

	lib          device.Library
	notifier     Notifier
	recorder     AttemptRecorder
	availability AvailabilityPublisher
	log          *zap.Logger

	maxRetries int

	// legacy keeps one AttemptState for the controller's lifetime instead
	// of one per sequence. Once a sequence has finished, later sequences
	// make no attempts at all.
	legacy bool
	shared AttemptState
}

type ControllerOption func(*ConnectionController)

func WithRecorder(r AttemptRecorder) ControllerOption {
	return func(c *ConnectionController) { c.recorder = r }
}

func WithAvailability(p AvailabilityPublisher) ControllerOption {
	return func(c *ConnectionController) { c.availability = p }
}

// WithMaxRetries lowers the retry cap; values above DefaultMaxRetries are
// rejected by NewConnectionController.
func WithMaxRetries(n int) ControllerOption {
	return func(c *ConnectionController) { c.maxRetries = n }
}

func WithLegacySharedState(enabled bool) ControllerOption {
	return func(c *ConnectionController) { c.legacy = enabled }
}

func WithLogger(log *zap.Logger) ControllerOption {
	return func(c *ConnectionController) { c.log = log }
}

func NewConnectionController(lib device.Library, notifier Notifier, opts ...ControllerOption) (*ConnectionController, error) {
	if lib == nil {
		return nil, errors.New("device library cannot be nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}

	c := &ConnectionController{
		lib:        lib,
		notifier:   notifier,
		log:        zap.NewNop(),
		maxRetries: DefaultMaxRetries,
		shared:     NewAttemptState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 0 || c.maxRetries > DefaultMaxRetries {
		return nil, fmt.Errorf("max retries must be between 0 and %d, got %d", DefaultMaxRetries, c.maxRetries)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("connect")

	return c, nil
}

// AttemptConnect runs one connect sequence: an initial attempt plus up to
// maxRetries retries, stopping at the first zero result code. Every
// transition is notified before the next attempt starts. A sequence that
// gives up is not an error; errors come only from notification delivery or
// ctx, which is checked between attempts. A connected sequence never returns
// an error: a failed "connected" notification is only logged.
func (c *ConnectionController) AttemptConnect(ctx context.Context) (ConnectOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcome := ConnectOutcome{SessionID: uuid.New()}
	session := outcome.SessionID.String()
	log := c.log.With(zap.String("session", session))

	state := NewAttemptState()
	if c.legacy {
		state = c.shared
		defer func() { c.shared = state }()
		if !state.ShouldContinue {
			log.Info("connect sequence already finished, nothing to do")
		}
	}

	for state.ShouldContinue {
		if err := ctx.Err(); err != nil {
			return outcome, fmt.Errorf("connect sequence cancelled: %w", err)
		}

		attempt := outcome.Attempts + 1
		if err := c.notify(ctx, models.StartingNotification(session, attempt)); err != nil {
			return outcome, err
		}

		result := models.ConnectionResult{Code: c.lib.ConnectDevice()}
		outcome.Attempts = attempt
		outcome.LastCode = result.Code

		var step Step
		step, state = NextStep(state, result, c.maxRetries)

		log.Info("connect attempt finished",
			zap.Int("attempt", attempt),
			zap.Int("code", result.Code),
			zap.Stringer("step", step))
		c.record(ctx, AttemptRecord{
			SessionID: outcome.SessionID,
			Attempt:   attempt,
			Code:      result.Code,
			Step:      step.String(),
		})

		var n models.Notification
		switch step {
		case StepConnected:
			outcome.Connected = true
			c.publish(models.StateOnline)
			n = models.ConnectedNotification(session, attempt)
		case StepRetry:
			n = models.RetryNotification(session, attempt, state.AttemptsMade)
		case StepGiveUp:
			c.publish(models.StateOffline)
			n = models.GivingUpNotification(session, attempt)
		}
		if err := c.notify(ctx, n); err != nil {
			// the device is connected whether or not anyone saw the message
			if outcome.Connected {
				log.Warn("connected, but the notification was not delivered", zap.Error(err))
				return outcome, nil
			}
			return outcome, err
		}
	}

	return outcome, nil
}

// Connected reports whether the device link is up right now.
func (c *ConnectionController) Connected() bool {
	return c.lib.IsConnected()
}

func (c *ConnectionController) notify(ctx context.Context, n models.Notification) error {
	if err := c.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("failed to deliver %s notification: %w", n.Kind, err)
	}
	return nil
}

func (c *ConnectionController) record(ctx context.Context, rec AttemptRecord) {
	if c.recorder == nil {
		return
	}
	rec.CreatedAt = time.Now().UTC()
	if err := c.recorder.RecordAttempt(ctx, rec); err != nil {
		c.log.Error("failed to record connect attempt", zap.Int("attempt", rec.Attempt), zap.Error(err))
	}
}

func (c *ConnectionController) publish(state string) {
	if c.availability == nil {
		return
	}
	if err := c.availability.PublishAvailability(state); err != nil {
		c.log.Error("failed to publish availability", zap.String("state", state), zap.Error(err))
	}
}
