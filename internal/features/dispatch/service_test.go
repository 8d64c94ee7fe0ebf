package dispatch

import (
	"context"
	"testing"

	"go-cet-sync/internal/features/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type stubResolver struct {
	pairs []ConnectionPayload
}

func (s *stubResolver) ResolveConnections(ctx context.Context, rec record.SourceRecord, entityType record.EntityType) []ConnectionPayload {
	return s.pairs
}

type stubDispatcher struct {
	outcomes map[string]Outcome
	calls    []string
}

func (s *stubDispatcher) Dispatch(ctx context.Context, connectionID string, payload Payload) Outcome {
	s.calls = append(s.calls, connectionID)
	out := s.outcomes[connectionID]
	out.ConnectionID = connectionID
	return out
}

type capturingEventLog struct {
	recordID   string
	recordType record.EntityType
	outcomes   []Outcome
	batches    int
}

func (c *capturingEventLog) LogOutcomes(recordID string, recordType record.EntityType, outcomes []Outcome) {
	c.recordID = recordID
	c.recordType = recordType
	c.outcomes = outcomes
	c.batches++
}

func (c *capturingEventLog) InsertEntries(ctx context.Context, entries []bson.M) error {
	return nil
}

func TestOnRecordChangedFansOutAndCoalesces(t *testing.T) {
	pairs := []ConnectionPayload{
		{ConnectionID: "conn-1", Payload: testPayload()},
		{ConnectionID: "conn-2", Payload: testPayload()},
	}
	disp := &stubDispatcher{outcomes: map[string]Outcome{
		"conn-1": {StatusCode: 200},
		"conn-2": {StatusCode: 500, ResponseBody: "boom"},
	}}
	logs := &capturingEventLog{}

	svc := &DispatchServiceImpl{
		Resolver:   &stubResolver{pairs: pairs},
		Dispatcher: disp,
		EventLog:   logs,
		Logger:     zap.NewNop(),
	}

	svc.OnRecordChanged(context.Background(), record.EntityLead, record.SourceRecord{"Id": "r1", "Email": "a@b.com"})

	assert.Equal(t, []string{"conn-1", "conn-2"}, disp.calls)

	// Both attempts land in one coalesced batch, success and failure alike.
	require.Equal(t, 1, logs.batches)
	assert.Equal(t, "r1", logs.recordID)
	assert.Equal(t, record.EntityLead, logs.recordType)
	assert.Len(t, logs.outcomes, 2)
}

func TestOnRecordChangedDropsSkippedOutcomes(t *testing.T) {
	pairs := []ConnectionPayload{
		{ConnectionID: "conn-1", Payload: testPayload()},
		{ConnectionID: "conn-dead", Payload: testPayload()},
	}
	disp := &stubDispatcher{outcomes: map[string]Outcome{
		"conn-1":    {StatusCode: 200},
		"conn-dead": {Skipped: true},
	}}
	logs := &capturingEventLog{}

	svc := &DispatchServiceImpl{
		Resolver:   &stubResolver{pairs: pairs},
		Dispatcher: disp,
		EventLog:   logs,
		Logger:     zap.NewNop(),
	}

	svc.OnRecordChanged(context.Background(), record.EntityLead, record.SourceRecord{"Id": "r1"})

	// The unusable connection was attempted but leaves no trace in the log.
	assert.Len(t, disp.calls, 2)
	require.Len(t, logs.outcomes, 1)
	assert.Equal(t, "conn-1", logs.outcomes[0].ConnectionID)
}

func TestOnRecordChangedNoQualifyingConfigs(t *testing.T) {
	logs := &capturingEventLog{}
	svc := &DispatchServiceImpl{
		Resolver:   &stubResolver{},
		Dispatcher: &stubDispatcher{},
		EventLog:   logs,
		Logger:     zap.NewNop(),
	}

	svc.OnRecordChanged(context.Background(), record.EntityLead, record.SourceRecord{"Id": "r1"})

	assert.Zero(t, logs.batches)
}
