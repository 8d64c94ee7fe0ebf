package syncconfig

import (
	"context"
	"fmt"
	"strings"
)

type SyncConfigService interface {
	CreateConfiguration(ctx context.Context, cfg *SyncConfiguration, mappings []FieldMapping) error
	GetConfiguration(ctx context.Context, id string) (*SyncConfiguration, []FieldMapping, error)
	ListConfigurations(ctx context.Context) ([]SyncConfiguration, error)
	UpdateConfiguration(ctx context.Context, id string, updates map[string]interface{}) error
	ReplaceMappings(ctx context.Context, id string, mappings []FieldMapping) error
	DeleteConfiguration(ctx context.Context, id string) error
}

type SyncConfigServiceImpl struct {
	ConfigRepo  SyncConfigRepository
	MappingRepo FieldMappingRepository
}

func NewSyncConfigService(configRepo SyncConfigRepository, mappingRepo FieldMappingRepository) SyncConfigService {
	return &SyncConfigServiceImpl{
		ConfigRepo:  configRepo,
		MappingRepo: mappingRepo,
	}
}

func (s *SyncConfigServiceImpl) CreateConfiguration(ctx context.Context, cfg *SyncConfiguration, mappings []FieldMapping) error {
	if cfg.SourceEntity == "" {
		return fmt.Errorf("source_entity is required")
	}
	if cfg.TargetEntity != TargetProfile && cfg.TargetEntity != TargetEvent {
		return fmt.Errorf("target_entity must be %q or %q", TargetProfile, TargetEvent)
	}
	if cfg.Status == "" {
		cfg.Status = StatusInactive
	}

	if err := validateMappings(mappings); err != nil {
		return err
	}

	if err := s.ConfigRepo.Create(ctx, cfg); err != nil {
		return err
	}

	return s.MappingRepo.Replace(ctx, cfg.ID, mappings)
}

func (s *SyncConfigServiceImpl) GetConfiguration(ctx context.Context, id string) (*SyncConfiguration, []FieldMapping, error) {
	cfg, err := s.ConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	mappings, err := s.MappingRepo.ListByConfiguration(ctx, cfg.ID)
	if err != nil {
		return nil, nil, err
	}

	return cfg, mappings, nil
}

func (s *SyncConfigServiceImpl) ListConfigurations(ctx context.Context) ([]SyncConfiguration, error) {
	return s.ConfigRepo.List(ctx)
}

func (s *SyncConfigServiceImpl) UpdateConfiguration(ctx context.Context, id string, updates map[string]interface{}) error {
	return s.ConfigRepo.Update(ctx, id, updates)
}

func (s *SyncConfigServiceImpl) ReplaceMappings(ctx context.Context, id string, mappings []FieldMapping) error {
	cfg, err := s.ConfigRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := validateMappings(mappings); err != nil {
		return err
	}

	return s.MappingRepo.Replace(ctx, cfg.ID, mappings)
}

func (s *SyncConfigServiceImpl) DeleteConfiguration(ctx context.Context, id string) error {
	cfg, err := s.ConfigRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.MappingRepo.DeleteByConfiguration(ctx, cfg.ID); err != nil {
		return err
	}

	return s.ConfigRepo.Delete(ctx, id)
}

// validateMappings enforces the save-time invariants: destination field
// names among non-mandatory mappings must be unique case-insensitively, and
// declared data types must be from the known set. Dispatch never re-checks
// these.
func validateMappings(mappings []FieldMapping) error {
	seen := map[string]bool{}
	for _, m := range mappings {
		if m.DestinationField == "" || m.SourceField == "" {
			return fmt.Errorf("mapping requires both destination_field and source_field")
		}

		switch m.DataType {
		case DataTypeText, DataTypeNumber, DataTypeDate, DataTypeBoolean:
		default:
			return fmt.Errorf("unknown data_type %q for field %q", m.DataType, m.DestinationField)
		}

		if m.IsMandatory {
			continue
		}
		key := strings.ToLower(m.DestinationField)
		if seen[key] {
			return fmt.Errorf("duplicate destination field %q", m.DestinationField)
		}
		seen[key] = true
	}
	return nil
}
