package dispatch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-cet-sync/internal/features/connection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRegistry struct {
	creds map[string]*connection.Credentials
}

func (f *fakeRegistry) GetCredentials(ctx context.Context, idOrName string) *connection.Credentials {
	return f.creds[idOrName]
}

func (f *fakeRegistry) ResolveEndpoint(baseURL, kind string) string {
	base := strings.TrimRight(baseURL, "/")
	return base + "/1/upload"
}

func testPayload() Payload {
	return Payload{
		Identity:    "a@b.com",
		Type:        "profile",
		ProfileData: map[string]any{"first_name": "A"},
		Source:      "SFDC",
	}
}

func newDispatcher(reg connection.Registry) *HTTPDispatcher {
	return &HTTPDispatcher{
		Registry: reg,
		Client:   http.DefaultClient,
		Logger:   zap.NewNop(),
	}
}

func TestDispatchSendsEnvelopeAndHeaders(t *testing.T) {
	var gotBody string
	var gotHeaders http.Header
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotHeaders = r.Header.Clone()
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	reg := &fakeRegistry{creds: map[string]*connection.Credentials{
		"conn-1": {BaseURL: srv.URL, AccountID: "acct", Passcode: "pass"},
	}}

	outcome := newDispatcher(reg).Dispatch(context.Background(), "conn-1", testPayload())

	assert.False(t, outcome.Skipped)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.True(t, outcome.Success())

	assert.Equal(t, "/1/upload", gotPath)
	assert.Equal(t, "acct", gotHeaders.Get(HeaderAccountID))
	assert.Equal(t, "pass", gotHeaders.Get(HeaderPasscode))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))

	// The wire shape is a single-element "d" array.
	assert.JSONEq(t, `{"d":[{"identity":"a@b.com","type":"profile","profileData":{"first_name":"A"},"$source":"SFDC"}]}`, gotBody)
	assert.Equal(t, gotBody, outcome.RequestBody)
}

func TestDispatchSkipsWithoutUsableCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds *connection.Credentials
	}{
		{name: "unknown connection", creds: nil},
		{name: "blank passcode", creds: &connection.Credentials{BaseURL: "http://x", AccountID: "acct"}},
		{name: "blank account id", creds: &connection.Credentials{BaseURL: "http://x", Passcode: "pass"}},
		{name: "blank base url", creds: &connection.Credentials{AccountID: "acct", Passcode: "pass"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistry{creds: map[string]*connection.Credentials{}}
			if tt.creds != nil {
				reg.creds["conn-1"] = tt.creds
			}

			outcome := newDispatcher(reg).Dispatch(context.Background(), "conn-1", testPayload())

			assert.True(t, outcome.Skipped)
			assert.False(t, outcome.Success())
			assert.Zero(t, outcome.StatusCode)
			assert.Empty(t, outcome.RequestBody)
		})
	}
}

func TestDispatchTransportErrorIsStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse the connection

	reg := &fakeRegistry{creds: map[string]*connection.Credentials{
		"conn-1": {BaseURL: srv.URL, AccountID: "acct", Passcode: "pass"},
	}}

	outcome := newDispatcher(reg).Dispatch(context.Background(), "conn-1", testPayload())

	assert.False(t, outcome.Skipped)
	assert.Zero(t, outcome.StatusCode)
	assert.NotEmpty(t, outcome.ResponseBody)
	assert.False(t, outcome.Success())
}

func TestOutcomeSuccessClassification(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    bool
	}{
		{name: "200 success body", outcome: Outcome{StatusCode: 200, ResponseBody: `{"status":"success"}`}, want: true},
		{name: "200 unparseable body", outcome: Outcome{StatusCode: 200, ResponseBody: "OK"}, want: true},
		{name: "200 empty body", outcome: Outcome{StatusCode: 200}, want: true},
		{name: "200 status-less json", outcome: Outcome{StatusCode: 200, ResponseBody: `{"processed":1}`}, want: true},
		{name: "200 explicit failure", outcome: Outcome{StatusCode: 200, ResponseBody: `{"status":"fail"}`}, want: false},
		{name: "400", outcome: Outcome{StatusCode: 400, ResponseBody: `{"status":"success"}`}, want: false},
		{name: "500", outcome: Outcome{StatusCode: 500}, want: false},
		{name: "transport failure", outcome: Outcome{StatusCode: 0, ResponseBody: "dial tcp: connection refused"}, want: false},
		{name: "skipped", outcome: Outcome{StatusCode: 200, Skipped: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Success())
		})
	}
}

func TestDispatchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"fail","error":"bad passcode"}`))
	}))
	defer srv.Close()

	reg := &fakeRegistry{creds: map[string]*connection.Credentials{
		"conn-1": {BaseURL: srv.URL, AccountID: "acct", Passcode: "wrong"},
	}}

	outcome := newDispatcher(reg).Dispatch(context.Background(), "conn-1", testPayload())

	require.Equal(t, http.StatusUnauthorized, outcome.StatusCode)
	assert.Contains(t, outcome.ResponseBody, "bad passcode")
	assert.False(t, outcome.Success())
}
