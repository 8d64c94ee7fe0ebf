package dispatch

import (
	"context"
	"errors"
	"testing"

	"go-cet-sync/internal/features/record"
	"go-cet-sync/internal/features/syncconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func profileConfig(connID string) *syncconfig.SyncConfiguration {
	return &syncconfig.SyncConfiguration{
		ID:           primitive.NewObjectID(),
		Name:         "Lead Profiles",
		SourceEntity: "Lead",
		TargetEntity: syncconfig.TargetProfile,
		Status:       syncconfig.StatusActive,
		ConnectionID: connID,
	}
}

func identityMapping() syncconfig.FieldMapping {
	return syncconfig.FieldMapping{
		DestinationField: syncconfig.IdentityField,
		SourceField:      "Email",
		DataType:         syncconfig.DataTypeText,
		IsMandatory:      true,
	}
}

func TestBuildPayloadProfile(t *testing.T) {
	cfg := profileConfig("conn-1")
	mappings := []syncconfig.FieldMapping{
		identityMapping(),
		{DestinationField: "first_name", SourceField: "FirstName", DataType: syncconfig.DataTypeText},
	}
	rec := record.SourceRecord{"Email": "a@b.com", "FirstName": "A"}

	payload, err := BuildPayload(cfg, mappings, rec, "SFDC", "")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", payload.Identity)
	assert.Equal(t, "profile", payload.Type)
	assert.Equal(t, "SFDC", payload.Source)
	assert.Equal(t, map[string]any{"first_name": "A"}, payload.ProfileData)
	assert.Empty(t, payload.EventName)
	assert.Nil(t, payload.EventData)
}

func TestBuildPayloadEvent(t *testing.T) {
	cfg := profileConfig("conn-1")
	cfg.TargetEntity = syncconfig.TargetEvent
	mappings := []syncconfig.FieldMapping{
		identityMapping(),
		// The event name mapping's source field is the literal name, not a
		// record field reference.
		{DestinationField: syncconfig.EventNameField, SourceField: "sf_lead_created", DataType: syncconfig.DataTypeText, IsMandatory: true},
		{DestinationField: "first_name", SourceField: "FirstName", DataType: syncconfig.DataTypeText},
	}
	rec := record.SourceRecord{"Email": "a@b.com", "FirstName": "A"}

	payload, err := BuildPayload(cfg, mappings, rec, "SFDC", "")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", payload.Identity)
	assert.Equal(t, "event", payload.Type)
	assert.Equal(t, "sf_lead_created", payload.EventName)
	assert.Equal(t, map[string]any{"first_name": "A"}, payload.EventData)
	assert.Nil(t, payload.ProfileData)
}

func TestBuildPayloadGaps(t *testing.T) {
	cfg := profileConfig("conn-1")
	rec := record.SourceRecord{"Email": "a@b.com"}

	tests := []struct {
		name     string
		mappings []syncconfig.FieldMapping
		rec      record.SourceRecord
		wantErr  error
	}{
		{
			name:    "no mappings",
			rec:     rec,
			wantErr: ErrNoMappings,
		},
		{
			name: "no identity mapping",
			mappings: []syncconfig.FieldMapping{
				{DestinationField: "first_name", SourceField: "FirstName", DataType: syncconfig.DataTypeText},
			},
			rec:     rec,
			wantErr: ErrNoIdentityMapping,
		},
		{
			name:     "blank identity value",
			mappings: []syncconfig.FieldMapping{identityMapping()},
			rec:      record.SourceRecord{"Email": "  "},
			wantErr:  ErrBlankIdentity,
		},
		{
			name:     "missing identity field",
			mappings: []syncconfig.FieldMapping{identityMapping()},
			rec:      record.SourceRecord{},
			wantErr:  ErrBlankIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPayload(cfg, tt.mappings, tt.rec, "SFDC", "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// An event configuration without an evtName mapping does not qualify on the
// live path, but the batch path substitutes a default name. Both behaviors
// are intentional; do not unify them.
func TestBuildPayloadEventNameAsymmetry(t *testing.T) {
	cfg := profileConfig("conn-1")
	cfg.TargetEntity = syncconfig.TargetEvent
	mappings := []syncconfig.FieldMapping{identityMapping()}
	rec := record.SourceRecord{"Email": "a@b.com"}

	_, err := BuildPayload(cfg, mappings, rec, "SFDC", "")
	assert.ErrorIs(t, err, ErrNoEventName)

	payload, err := BuildPayload(cfg, mappings, rec, "SFDC", "sf_lead")
	require.NoError(t, err)
	assert.Equal(t, "sf_lead", payload.EventName)
}

func TestBuildPayloadSkipsNullValues(t *testing.T) {
	cfg := profileConfig("conn-1")
	mappings := []syncconfig.FieldMapping{
		identityMapping(),
		{DestinationField: "first_name", SourceField: "FirstName", DataType: syncconfig.DataTypeText},
		{DestinationField: "revenue", SourceField: "AnnualRevenue", DataType: syncconfig.DataTypeNumber},
	}
	rec := record.SourceRecord{"Email": "a@b.com", "AnnualRevenue": "1000"}

	payload, err := BuildPayload(cfg, mappings, rec, "SFDC", "")
	require.NoError(t, err)

	// FirstName is absent on the record: no entry, not a null entry.
	assert.Equal(t, map[string]any{"revenue": float64(1000)}, payload.ProfileData)
}

type fakeConfigRepo struct {
	syncconfig.SyncConfigRepository
	active []syncconfig.SyncConfiguration
	err    error
}

func (f *fakeConfigRepo) ListActiveBySourceEntity(ctx context.Context, sourceEntity string) ([]syncconfig.SyncConfiguration, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []syncconfig.SyncConfiguration
	for _, c := range f.active {
		if c.SourceEntity == sourceEntity {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMappingRepo struct {
	syncconfig.FieldMappingRepository
	byConfig map[primitive.ObjectID][]syncconfig.FieldMapping
	err      error
}

func (f *fakeMappingRepo) ListByConfiguration(ctx context.Context, configID primitive.ObjectID) ([]syncconfig.FieldMapping, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byConfig[configID], nil
}

func TestResolveConnectionsNoActiveConfig(t *testing.T) {
	r := &ResolverImpl{
		ConfigRepo:  &fakeConfigRepo{},
		MappingRepo: &fakeMappingRepo{},
		Source:      "SFDC",
		Logger:      zap.NewNop(),
	}

	got := r.ResolveConnections(context.Background(), record.SourceRecord{"Email": "a@b.com"}, record.EntityLead)
	assert.Empty(t, got)
}

func TestResolveConnectionsFanOut(t *testing.T) {
	cfg1 := profileConfig("conn-1")
	cfg2 := profileConfig("conn-2")

	r := &ResolverImpl{
		ConfigRepo: &fakeConfigRepo{active: []syncconfig.SyncConfiguration{*cfg1, *cfg2}},
		MappingRepo: &fakeMappingRepo{byConfig: map[primitive.ObjectID][]syncconfig.FieldMapping{
			cfg1.ID: {identityMapping()},
			cfg2.ID: {identityMapping()},
		}},
		Source: "SFDC",
		Logger: zap.NewNop(),
	}

	got := r.ResolveConnections(context.Background(), record.SourceRecord{"Email": "a@b.com"}, record.EntityLead)
	require.Len(t, got, 2)

	ids := []string{got[0].ConnectionID, got[1].ConnectionID}
	assert.ElementsMatch(t, []string{"conn-1", "conn-2"}, ids)
}

// One configuration failing to resolve never blocks its siblings.
func TestResolveConnectionsIsolation(t *testing.T) {
	broken := profileConfig("conn-broken")
	healthy := profileConfig("conn-ok")

	r := &ResolverImpl{
		ConfigRepo: &fakeConfigRepo{active: []syncconfig.SyncConfiguration{*broken, *healthy}},
		MappingRepo: &fakeMappingRepo{byConfig: map[primitive.ObjectID][]syncconfig.FieldMapping{
			// broken has no mappings at all
			healthy.ID: {identityMapping()},
		}},
		Source: "SFDC",
		Logger: zap.NewNop(),
	}

	got := r.ResolveConnections(context.Background(), record.SourceRecord{"Email": "a@b.com"}, record.EntityLead)
	require.Len(t, got, 1)
	assert.Equal(t, "conn-ok", got[0].ConnectionID)
}

func TestResolveConnectionsRepoError(t *testing.T) {
	r := &ResolverImpl{
		ConfigRepo:  &fakeConfigRepo{err: errors.New("store down")},
		MappingRepo: &fakeMappingRepo{},
		Source:      "SFDC",
		Logger:      zap.NewNop(),
	}

	got := r.ResolveConnections(context.Background(), record.SourceRecord{"Email": "a@b.com"}, record.EntityLead)
	assert.Empty(t, got)
}
