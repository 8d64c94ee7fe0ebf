package dispatch

import "encoding/json"

// Payload is one outbound upload for one destination connection.
type Payload struct {
	Identity    string
	Type        string // "profile" or "event"
	EventName   string
	EventData   map[string]any
	ProfileData map[string]any
	Source      string
}

// MarshalJSON keeps the wire shape keyed by payload kind: events carry
// evtName/evtData, profiles carry profileData, never both.
func (p Payload) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"identity": p.Identity,
		"type":     p.Type,
		"$source":  p.Source,
	}
	if p.Type == "event" {
		m["evtName"] = p.EventName
		m["evtData"] = p.EventData
	} else {
		m["profileData"] = p.ProfileData
	}
	return json.Marshal(m)
}

type envelope struct {
	D []Payload `json:"d"`
}

// Envelope serializes the single-element batch wrapper the upload endpoint
// expects.
func (p Payload) Envelope() ([]byte, error) {
	return json.Marshal(envelope{D: []Payload{p}})
}

// ConnectionPayload pairs a resolved payload with the connection it targets.
type ConnectionPayload struct {
	ConnectionID string
	Payload      Payload
}
