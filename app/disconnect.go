package app

import (
	"errors"

	"clamir/device"
	"clamir/models"

	"go.uber.org/zap"
)

// Disconnector drops the device connection. It never notifies the user; the
// result code only reaches the log.
type Disconnector struct {
	lib          device.Library
	availability AvailabilityPublisher
	log          *zap.Logger
}

func NewDisconnector(lib device.Library, availability AvailabilityPublisher, log *zap.Logger) (*Disconnector, error) {
	if lib == nil {
		return nil, errors.New("device library cannot be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Disconnector{lib: lib, availability: availability, log: log.Named("disconnect")}, nil
}

func (d *Disconnector) Disconnect() {
	code := d.lib.DisconnectDevice()
	d.log.Info("disconnect finished", zap.Int("code", code))

	if d.availability == nil {
		return
	}
	if err := d.availability.PublishAvailability(models.StateOffline); err != nil {
		d.log.Error("failed to publish availability", zap.Error(err))
	}
}
