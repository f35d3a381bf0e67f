package integrations

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/jackrejister/form-craft-nexus/pkg/log"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Adapter delivers a submission to one provider.
type Adapter interface {
	Send(ctx context.Context, integration models.FormIntegration, submission models.SubmissionPayload) error
}

// Options carries the shared dependencies adapters are built with.
type Options struct {
	Client        *http.Client
	SheetsBaseURL string
}

// AdapterConstructor builds an adapter from an integration's config map. It
// must reject incomplete configuration with a *ConfigurationError.
type AdapterConstructor func(props map[string]interface{}, opts Options) (Adapter, error)

var adapterRegistry = &sync.Map{}

func RegisterAdapter(t models.IntegrationType, constructor AdapterConstructor) {
	log.WithField("module", "integrations").Debugf("registered %v adapter", t)
	adapterRegistry.Store(t, constructor)
}

func GetAdapter(t models.IntegrationType, props map[string]interface{}, opts Options) (Adapter, error) {
	c, ok := adapterRegistry.Load(t)
	if !ok {
		return nil, &UnsupportedProviderError{Type: t}
	}
	a, err := c.(AdapterConstructor)(props, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating %s adapter", t)
	}
	return a, nil
}

// Supported lists the integration types that have an adapter.
func Supported() []models.IntegrationType {
	types := make([]models.IntegrationType, 0)
	adapterRegistry.Range(func(key, _ interface{}) bool {
		types = append(types, key.(models.IntegrationType))
		return true
	})
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func decodeConfig(provider models.IntegrationType, props map[string]interface{}, target interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(props); err != nil {
		return newConfigurationError(provider, "", provider.DisplayName()+" integration has invalid configuration: "+err.Error())
	}
	return nil
}
