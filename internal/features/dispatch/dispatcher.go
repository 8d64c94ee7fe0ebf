package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go-cet-sync/internal/config"
	"go-cet-sync/internal/features/connection"

	"go.uber.org/zap"
)

const (
	HeaderAccountID = "X-Provider-Account-Id"
	HeaderPasscode  = "X-Provider-Passcode"
)

// Outcome captures everything one dispatch attempt produced, including the
// exact request body for the audit trail.
type Outcome struct {
	ConnectionID string
	StatusCode   int
	ResponseBody string
	RequestBody  string

	// Skipped means no HTTP call was made because the connection could not
	// be resolved or its credentials are incomplete. The live path drops
	// skipped outcomes silently; the historical path logs them as failures.
	Skipped bool
}

// Success classifies the outcome. Anything but a 200 is a failure. A 200
// whose body carries {"status":"success"} is a success; a 200 with an
// unparseable or status-less body also counts as success on purpose.
func (o Outcome) Success() bool {
	if o.Skipped || o.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(o.ResponseBody), &body); err != nil {
		return true
	}
	if body.Status == "" {
		return true
	}
	return body.Status == "success"
}

// Dispatcher sends one payload to one destination connection. It never
// returns an error: transport faults become status-0 outcomes.
type Dispatcher interface {
	Dispatch(ctx context.Context, connectionID string, payload Payload) Outcome
}

type HTTPDispatcher struct {
	Registry connection.Registry
	Client   *http.Client
	Logger   *zap.Logger
}

func NewDispatcher(registry connection.Registry, cfg *config.Config, logger *zap.Logger) Dispatcher {
	return &HTTPDispatcher{
		Registry: registry,
		Client: &http.Client{
			Timeout: cfg.DispatchTimeout,
		},
		Logger: logger,
	}
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, connectionID string, payload Payload) Outcome {
	outcome := Outcome{ConnectionID: connectionID}

	creds := d.Registry.GetCredentials(ctx, connectionID)
	if creds == nil || !creds.Valid() {
		d.Logger.Debug("skipping dispatch, connection unusable", zap.String("connection", connectionID))
		outcome.Skipped = true
		return outcome
	}

	body, err := payload.Envelope()
	if err != nil {
		outcome.ResponseBody = "serialization error: " + err.Error()
		return outcome
	}
	outcome.RequestBody = string(body)

	endpoint := d.Registry.ResolveEndpoint(creds.BaseURL, payload.Type)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		outcome.ResponseBody = err.Error()
		return outcome
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAccountID, creds.AccountID)
	req.Header.Set(HeaderPasscode, creds.Passcode)

	resp, err := d.Client.Do(req)
	if err != nil {
		// Timeouts and refused connections are failed outcomes, never
		// errors surfaced to the caller.
		outcome.ResponseBody = err.Error()
		return outcome
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	outcome.StatusCode = resp.StatusCode
	outcome.ResponseBody = string(respBody)
	return outcome
}
