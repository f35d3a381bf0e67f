package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const maxDrainBytes = 64 << 10

// sendJSON issues one JSON request and turns transport problems and non-2xx
// responses into a *TransportError named after op.
func sendJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body interface{}, op string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "error encoding %s payload", op)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, StatusCode: resp.StatusCode}
	}
	return nil
}
