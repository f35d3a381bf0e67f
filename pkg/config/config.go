package config

import (
	"time"

	"github.com/jackrejister/form-craft-nexus/pkg/deliverylog"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/jackrejister/form-craft-nexus/pkg/log"
	"github.com/jackrejister/form-craft-nexus/pkg/repo"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server        Server            `yaml:"server"`
	Logging       Logging           `yaml:"logging"`
	Dispatcher    Dispatcher        `yaml:"dispatcher"`
	FormDataStore repo.Config        `yaml:"formDataStore"`
	DeliveryLog   deliverylog.Config `yaml:"deliveryLog"`
}

type Server struct {
	Port int
	Cors Cors
}

type Cors struct {
	AllowedOrigins []string
}

type Logging struct {
	Level  string
	Format string
}

type Dispatcher struct {
	Timeout        time.Duration
	MaxConcurrency int
	SheetsBaseURL  string `mapstructure:"sheetsBaseUrl"`
}

func (d Dispatcher) IntegrationsConfig() integrations.Config {
	return integrations.Config{
		Timeout:        d.Timeout,
		MaxConcurrency: d.MaxConcurrency,
		SheetsBaseURL:  d.SheetsBaseURL,
	}
}

const defaultPort = 8080

var config = defaults()

func defaults() Config {
	return Config{
		Server:     Server{Port: defaultPort},
		Logging:    Logging{Level: "info", Format: "text"},
		Dispatcher: Dispatcher{Timeout: integrations.DefaultTimeout},
	}
}

// InitConfig reads the loaded viper settings into the global config and
// applies the logging settings.
func InitConfig() error {
	var configLogger = log.WithField("module", "config")

	newConfig := defaults()
	if err := viper.Unmarshal(&newConfig); err != nil {
		configLogger.Errorf("error reading config: %s", err)
		return errors.Wrap(err, "error reading config")
	}
	if newConfig.Server.Port == 0 {
		newConfig.Server.Port = defaultPort
	}
	if newConfig.Dispatcher.Timeout <= 0 {
		newConfig.Dispatcher.Timeout = integrations.DefaultTimeout
	}
	if err := log.Configure(newConfig.Logging.Level, newConfig.Logging.Format); err != nil {
		return err
	}
	config = newConfig

	configLogger.Debugf("got configuration %+v", config)
	return nil
}

func GetConfig() Config {
	return config
}

func SetConfig(newConfig Config) {
	config = newConfig
}
