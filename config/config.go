package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DeviceName        string        `mapstructure:"CLAMIR_NAME"`
	DeviceAddr        string        `mapstructure:"CLAMIR_ADDR"`
	DeviceCommandPort int           `mapstructure:"CLAMIR_COMMAND_PORT"`
	DeviceImagePort   int           `mapstructure:"CLAMIR_IMAGE_PORT"`
	DeviceDialTimeout time.Duration `mapstructure:"CLAMIR_DIAL_TIMEOUT"`
	LegacySharedState bool          `mapstructure:"LEGACY_SHARED_STATE"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`

	MqttBroker   string `mapstructure:"MQTT_BROKER"`
	MqttUser     string `mapstructure:"MQTT_USER"`
	MqttPassword string `mapstructure:"MQTT_PASSWORD"`

	NatsUrl string `mapstructure:"NATS_URL"`

	// ConfigFile is the file the values were read from, empty when only the
	// environment was used.
	ConfigFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"CLAMIR_NAME":         "clamir",
	"CLAMIR_ADDR":         "192.168.1.77",
	"CLAMIR_COMMAND_PORT": 4000,
	"CLAMIR_IMAGE_PORT":   4001,
	"CLAMIR_DIAL_TIMEOUT": "5s",
	"LEGACY_SHARED_STATE": false,
	"LOG_LEVEL":           "info",

	"DB_HOST":     "",
	"DB_PORT":     "5432",
	"DB_NAME":     "",
	"DB_USER":     "",
	"DB_PASSWORD": "",

	"MQTT_BROKER":   "",
	"MQTT_USER":     "",
	"MQTT_PASSWORD": "",

	"NATS_URL": "",
}

// LoadConfig reads path (an env-format file, usually ".env") and overlays the
// process environment. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.AutomaticEnv()

	var config Config

	err := v.ReadInConfig()
	if err == nil {
		config.ConfigFile = v.ConfigFileUsed()
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.DeviceAddr == "" {
		return errors.New("CLAMIR_ADDR must be set")
	}
	if c.DeviceCommandPort <= 0 || c.DeviceImagePort <= 0 {
		return fmt.Errorf("invalid device ports %d/%d", c.DeviceCommandPort, c.DeviceImagePort)
	}
	// Postgres is optional, but a partial configuration is a mistake.
	if c.DBHost != "" && (c.DBUser == "" || c.DBName == "") {
		return errors.New("DB_USER and DB_NAME are required when DB_HOST is set")
	}
	return nil
}

// DatabaseEnabled reports whether connection attempts should be persisted.
func (c Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

func (c Config) MqttEnabled() bool {
	return c.MqttBroker != ""
}

func (c Config) NatsEnabled() bool {
	return c.NatsUrl != ""
}
