package deliverylog

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type Config struct {
	Type       string                 `yaml:"type"`
	Properties map[string]interface{} `yaml:"properties,omitempty"`
}

type sqliteProperties struct {
	Path string `mapstructure:"path"`
}

// New builds the recorder selected by c.Type. Anything but "sqlite" keeps
// records in memory.
func New(c Config) (Recorder, error) {
	switch c.Type {
	case "sqlite":
		var props sqliteProperties
		if err := mapstructure.Decode(c.Properties, &props); err != nil {
			return nil, errors.Wrap(err, "error decoding sqlite delivery log properties")
		}
		return OpenSQLite(props.Path)
	case "", "memory":
		return NewInMemoryRecorder(), nil
	}
	return nil, errors.Errorf("unknown delivery log type %q", c.Type)
}
