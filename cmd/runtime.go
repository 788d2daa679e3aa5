package main

import (
	"context"
	"database/sql"
	"fmt"

	"clamir/app"
	"clamir/config"
	"clamir/database"
	"clamir/device"
	"clamir/logger"
	"clamir/services"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// runtime is everything a command needs, built from the configuration.
// Postgres, MQTT and NATS are wired only when configured.
type runtime struct {
	cfg config.Config
	log *zap.Logger

	lib   *device.Client
	db    *sql.DB
	store *app.AttemptStore
	mqtt  *services.MqttService
	nc    *nats.Conn

	availability app.AvailabilityPublisher
}

type runtimeOptions struct {
	consoleLog bool
	needNats   bool
}

func newRuntime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	var log *zap.Logger
	if opts.consoleLog {
		log, err = logger.NewConsoleLogger(cfg.LogLevel)
	} else {
		log, err = logger.NewLogger(cfg.LogLevel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	if cfg.ConfigFile == "" {
		log.Debug("no config file, using environment variables", zap.String("path", envFile))
	}

	rt := &runtime{cfg: cfg, log: log}
	rt.lib = device.NewClient(device.Options{
		Addr:        cfg.DeviceAddr,
		CommandPort: cfg.DeviceCommandPort,
		ImagePort:   cfg.DeviceImagePort,
		DialTimeout: cfg.DeviceDialTimeout,
	}, log)

	if cfg.DatabaseEnabled() {
		db, err := database.ConnectDB(ctx, cfg, log)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.db = db
		if err := database.Migrate(ctx, db); err != nil {
			rt.Close()
			return nil, err
		}
		rt.store = app.NewAttemptStore(db)
	}

	if cfg.MqttEnabled() {
		rt.mqtt = services.NewMqttService(services.MqttOptions{
			ID:        cfg.DeviceName + "-console",
			Broker:    cfg.MqttBroker,
			User:      cfg.MqttUser,
			Password:  cfg.MqttPassword,
			WillTopic: services.AvailabilityTopic(cfg.DeviceName),
		}, log)
		if err := rt.mqtt.Start(); err != nil {
			rt.Close()
			return nil, err
		}
		availability, err := services.NewAvailabilityPublisher(rt.mqtt, cfg.DeviceName)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.availability = availability
	}

	if opts.needNats || cfg.NatsEnabled() {
		nc, err := services.InitNats(cfg.NatsUrl, log)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.nc = nc
	}

	return rt, nil
}

// notifier adds the NATS notifier, when connected, after the given one.
func (rt *runtime) notifier(primary app.Notifier) (app.Notifier, error) {
	if rt.nc == nil {
		return primary, nil
	}
	natsNotifier, err := services.NewNatsNotifier(rt.nc)
	if err != nil {
		return nil, err
	}
	return app.MultiNotifier{primary, natsNotifier}, nil
}

func (rt *runtime) panel(notifier app.Notifier) (*app.Panel, error) {
	n, err := rt.notifier(notifier)
	if err != nil {
		return nil, err
	}

	opts := []app.ControllerOption{
		app.WithLogger(rt.log),
		app.WithLegacySharedState(rt.cfg.LegacySharedState),
	}
	if rt.store != nil {
		opts = append(opts, app.WithRecorder(rt.store))
	}
	if rt.availability != nil {
		opts = append(opts, app.WithAvailability(rt.availability))
	}

	connector, err := app.NewConnectionController(rt.lib, n, opts...)
	if err != nil {
		return nil, err
	}
	calc, err := app.NewCalculator(rt.lib)
	if err != nil {
		return nil, err
	}
	disconnect, err := app.NewDisconnector(rt.lib, rt.availability, rt.log)
	if err != nil {
		return nil, err
	}
	return app.NewPanel(calc, connector, disconnect)
}

func (rt *runtime) Close() {
	if rt.mqtt != nil {
		rt.mqtt.Stop()
	}
	if rt.nc != nil {
		if err := rt.nc.Drain(); err != nil {
			rt.log.Warn("failed to drain nats connection", zap.Error(err))
		}
	}
	if rt.db != nil {
		rt.db.Close()
	}
	rt.log.Sync()
}
