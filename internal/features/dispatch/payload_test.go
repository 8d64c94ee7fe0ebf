package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadEnvelopeProfile(t *testing.T) {
	p := Payload{
		Identity:    "a@b.com",
		Type:        "profile",
		ProfileData: map[string]any{"first_name": "A", "revenue": float64(1000)},
		Source:      "SFDC",
	}

	body, err := p.Envelope()
	require.NoError(t, err)

	assert.JSONEq(t, `{"d":[{
		"identity": "a@b.com",
		"type": "profile",
		"profileData": {"first_name": "A", "revenue": 1000},
		"$source": "SFDC"
	}]}`, string(body))
	assert.NotContains(t, string(body), "evtName")
}

func TestPayloadEnvelopeEvent(t *testing.T) {
	p := Payload{
		Identity:  "a@b.com",
		Type:      "event",
		EventName: "sf_lead_created",
		EventData: map[string]any{"status": "Open"},
		Source:    "SFDC",
	}

	body, err := p.Envelope()
	require.NoError(t, err)

	assert.JSONEq(t, `{"d":[{
		"identity": "a@b.com",
		"type": "event",
		"evtName": "sf_lead_created",
		"evtData": {"status": "Open"},
		"$source": "SFDC"
	}]}`, string(body))
	assert.NotContains(t, string(body), "profileData")
}

func TestPayloadEnvelopeEmptyData(t *testing.T) {
	p := Payload{
		Identity:    "a@b.com",
		Type:        "profile",
		ProfileData: map[string]any{},
		Source:      "SFDC",
	}

	body, err := p.Envelope()
	require.NoError(t, err)

	// An empty data map is still present on the wire, never null or omitted.
	assert.JSONEq(t, `{"d":[{"identity":"a@b.com","type":"profile","profileData":{},"$source":"SFDC"}]}`, string(body))
}
