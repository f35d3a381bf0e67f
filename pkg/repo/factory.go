package repo

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type Config struct {
	Type       string                 `yaml:"type"`
	Properties map[string]interface{} `yaml:"properties,omitempty"`
}

type Repositories struct {
	Forms     FormRepository
	Responses ResponseRepository
}

type memoryProperties struct {
	SeedFile string `mapstructure:"seedFile"`
}

type mongoProperties struct {
	URL                 string `mapstructure:"url"`
	Database            string `mapstructure:"database"`
	FormsCollection     string `mapstructure:"formsCollection"`
	ResponsesCollection string `mapstructure:"responsesCollection"`
}

// New builds the repositories selected by c.Type: "mongodb" or in memory.
func New(c Config) (Repositories, error) {
	switch c.Type {
	case "mongodb":
		var props mongoProperties
		if err := mapstructure.Decode(c.Properties, &props); err != nil {
			return Repositories{}, errors.Wrap(err, "error decoding mongodb properties")
		}
		if props.FormsCollection == "" {
			props.FormsCollection = "forms"
		}
		if props.ResponsesCollection == "" {
			props.ResponsesCollection = "responses"
		}
		client, err := connectMongo(props.URL)
		if err != nil {
			return Repositories{}, err
		}
		forms, err := NewFormMongoRepository(client, props.Database, props.FormsCollection)
		if err != nil {
			return Repositories{}, err
		}
		responses, err := NewResponseMongoRepository(client, props.Database, props.ResponsesCollection)
		if err != nil {
			return Repositories{}, err
		}
		return Repositories{Forms: forms, Responses: responses}, nil
	case "", "memory":
		var props memoryProperties
		if err := mapstructure.Decode(c.Properties, &props); err != nil {
			return Repositories{}, errors.Wrap(err, "error decoding memory store properties")
		}
		seed := SampleForms()
		if props.SeedFile != "" {
			extra, err := LoadSeedFile(props.SeedFile)
			if err != nil {
				return Repositories{}, err
			}
			now := time.Now()
			for _, f := range extra {
				seed = append(seed, prepareNewForm(f, now))
			}
		}
		return Repositories{
			Forms:     NewInMemoryFormRepository(seed...),
			Responses: NewInMemoryResponseRepository(),
		}, nil
	}
	return Repositories{}, errors.Errorf("unknown form data store type %q", c.Type)
}
