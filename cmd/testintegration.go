package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jackrejister/form-craft-nexus/pkg/config"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/jackrejister/form-craft-nexus/pkg/log"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	integrationType     string
	integrationName     string
	integrationSettings []string
	testIntegrationCmd  = &cobra.Command{
		Use:   "test-integration",
		Short: "Send a sample submission through one integration",
		Example: "  formcraft test-integration --type slack --set webhookUrl=https://hooks.slack.com/services/T/B/X\n" +
			"  formcraft test-integration --type webhook --set url=https://example.com/hook --set method=PUT",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := parseSettings(integrationSettings)
			if err != nil {
				return err
			}
			in := models.FormIntegration{
				ID:      "cli",
				Type:    models.IntegrationType(integrationType),
				Name:    integrationName,
				Enabled: true,
				Config:  settings,
			}
			if !in.Type.Valid() {
				return errors.Errorf("unknown integration type %s", integrationType)
			}
			d := integrations.NewDispatcher(config.GetConfig().Dispatcher.IntegrationsConfig(), &http.Client{},
				log.WithField("module", "cli"))
			outcome := d.TestIntegration(context.Background(), in)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(outcome); err != nil {
				return err
			}
			if !outcome.Succeeded() {
				return errors.Errorf("integration test %s", outcome.Status)
			}
			return nil
		},
	}
)

func init() {
	testIntegrationCmd.Flags().StringVar(&integrationType, "type", "", "integration type, e.g. sheets, webhook, slack, zapier, make")
	testIntegrationCmd.Flags().StringVar(&integrationName, "name", "CLI test", "integration name")
	testIntegrationCmd.Flags().StringArrayVar(&integrationSettings, "set", nil, "integration setting as key=value, may be repeated")
	_ = testIntegrationCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(testIntegrationCmd)
}

// parseSettings turns key=value pairs into an integration config. A key
// like headers.X-Api-Key sets one entry of a nested map.
func parseSettings(pairs []string) (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.Errorf("invalid setting %q, expected key=value", p)
		}
		parent, child, nested := strings.Cut(k, ".")
		if !nested {
			settings[k] = v
			continue
		}
		m, _ := settings[parent].(map[string]interface{})
		if m == nil {
			m = make(map[string]interface{})
			settings[parent] = m
		}
		m[child] = v
	}
	return settings, nil
}
