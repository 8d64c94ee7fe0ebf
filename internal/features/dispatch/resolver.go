package dispatch

import (
	"context"
	"errors"
	"strings"

	"go-cet-sync/internal/config"
	"go-cet-sync/internal/features/record"
	"go-cet-sync/internal/features/syncconfig"

	"go.uber.org/zap"
)

// Sentinel reasons a configuration produces no payload for a record. None of
// them are dispatch failures; callers decide whether to skip or substitute.
var (
	ErrNoMappings        = errors.New("configuration has no field mappings")
	ErrNoIdentityMapping = errors.New("configuration has no identity mapping")
	ErrBlankIdentity     = errors.New("record has no identity value")
	ErrNoEventName       = errors.New("event configuration has no event name mapping")
)

// Resolver finds the active configurations for a changed record and builds
// one payload per qualifying destination connection.
type Resolver interface {
	ResolveConnections(ctx context.Context, rec record.SourceRecord, entityType record.EntityType) []ConnectionPayload
}

type ResolverImpl struct {
	ConfigRepo  syncconfig.SyncConfigRepository
	MappingRepo syncconfig.FieldMappingRepository
	Source      string
	Logger      *zap.Logger
}

func NewResolver(configRepo syncconfig.SyncConfigRepository, mappingRepo syncconfig.FieldMappingRepository, cfg *config.Config, logger *zap.Logger) Resolver {
	return &ResolverImpl{
		ConfigRepo:  configRepo,
		MappingRepo: mappingRepo,
		Source:      cfg.SourceMarker,
		Logger:      logger,
	}
}

func (r *ResolverImpl) ResolveConnections(ctx context.Context, rec record.SourceRecord, entityType record.EntityType) []ConnectionPayload {
	cfgs, err := r.ConfigRepo.ListActiveBySourceEntity(ctx, string(entityType))
	if err != nil {
		r.Logger.Error("listing active configurations failed", zap.String("entity", string(entityType)), zap.Error(err))
		return nil
	}

	var out []ConnectionPayload
	for _, cfg := range cfgs {
		// Each configuration resolves independently; one bad configuration
		// never blocks its siblings.
		payload, err := r.resolveOne(ctx, &cfg, rec)
		if err != nil {
			if !isConfigurationGap(err) {
				r.Logger.Warn("skipping configuration",
					zap.String("configuration", cfg.Name),
					zap.Error(err))
			}
			continue
		}
		out = append(out, ConnectionPayload{
			ConnectionID: cfg.ConnectionID,
			Payload:      payload,
		})
	}
	return out
}

func (r *ResolverImpl) resolveOne(ctx context.Context, cfg *syncconfig.SyncConfiguration, rec record.SourceRecord) (Payload, error) {
	mappings, err := r.MappingRepo.ListByConfiguration(ctx, cfg.ID)
	if err != nil {
		return Payload{}, err
	}

	// Live path: an event configuration without an event name does not
	// qualify at all. The historical path substitutes a default name
	// instead; the two behaviors are deliberately kept apart.
	return BuildPayload(cfg, mappings, rec, r.Source, "")
}

func isConfigurationGap(err error) bool {
	return errors.Is(err, ErrNoMappings) ||
		errors.Is(err, ErrNoIdentityMapping) ||
		errors.Is(err, ErrBlankIdentity) ||
		errors.Is(err, ErrNoEventName)
}

// BuildPayload assembles the outbound payload for one configuration against
// one record. defaultEventName fills in for event configurations whose
// evtName mapping is absent or blank; when it is empty too, the
// configuration does not qualify and ErrNoEventName is returned.
func BuildPayload(cfg *syncconfig.SyncConfiguration, mappings []syncconfig.FieldMapping, rec record.SourceRecord, source, defaultEventName string) (Payload, error) {
	if len(mappings) == 0 {
		return Payload{}, ErrNoMappings
	}

	var identityMapping *syncconfig.FieldMapping
	eventName := ""
	for i := range mappings {
		if mappings[i].IsIdentity() {
			identityMapping = &mappings[i]
		}
		if mappings[i].IsEventName() {
			// The mapping's source_field is the literal event name, never a
			// record field reference.
			eventName = strings.TrimSpace(mappings[i].SourceField)
		}
	}
	if identityMapping == nil {
		return Payload{}, ErrNoIdentityMapping
	}

	identity := ""
	if v := rec.Field(identityMapping.SourceField); v != nil {
		identity = strings.TrimSpace(Stringify(v))
	}
	if identity == "" {
		return Payload{}, ErrBlankIdentity
	}

	isEvent := cfg.TargetEntity == syncconfig.TargetEvent
	if isEvent && eventName == "" {
		eventName = defaultEventName
		if eventName == "" {
			return Payload{}, ErrNoEventName
		}
	}

	data := map[string]any{}
	for _, m := range mappings {
		if m.IsMandatory || m.DestinationField == syncconfig.IdentityField || m.DestinationField == syncconfig.EventNameField {
			continue
		}
		v := rec.Field(m.SourceField)
		if v == nil {
			continue
		}
		data[m.DestinationField] = Convert(v, m.DataType)
	}

	payload := Payload{
		Identity: identity,
		Source:   source,
	}
	if isEvent {
		payload.Type = syncconfig.TargetEvent
		payload.EventName = eventName
		payload.EventData = data
	} else {
		payload.Type = syncconfig.TargetProfile
		payload.ProfileData = data
	}
	return payload, nil
}
