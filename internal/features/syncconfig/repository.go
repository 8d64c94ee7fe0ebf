package syncconfig

import (
	"context"
	"time"

	"go-cet-sync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SyncConfigRepository interface {
	Create(ctx context.Context, cfg *SyncConfiguration) error
	Get(ctx context.Context, id string) (*SyncConfiguration, error)
	List(ctx context.Context) ([]SyncConfiguration, error)
	ListActiveBySourceEntity(ctx context.Context, sourceEntity string) ([]SyncConfiguration, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type FieldMappingRepository interface {
	Replace(ctx context.Context, configID primitive.ObjectID, mappings []FieldMapping) error
	ListByConfiguration(ctx context.Context, configID primitive.ObjectID) ([]FieldMapping, error)
	DeleteByConfiguration(ctx context.Context, configID primitive.ObjectID) error
}

type SyncConfigRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSyncConfigRepository(db *database.MongodbDB) SyncConfigRepository {
	return &SyncConfigRepositoryImpl{
		collection: db.DB.Collection("sync_configurations"),
	}
}

func (r *SyncConfigRepositoryImpl) Create(ctx context.Context, cfg *SyncConfiguration) error {
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, cfg)
	return err
}

func (r *SyncConfigRepositoryImpl) Get(ctx context.Context, id string) (*SyncConfiguration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var cfg SyncConfiguration
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (r *SyncConfigRepositoryImpl) List(ctx context.Context) ([]SyncConfiguration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cfgs []SyncConfiguration
	if err = cursor.All(ctx, &cfgs); err != nil {
		return nil, err
	}

	return cfgs, nil
}

func (r *SyncConfigRepositoryImpl) ListActiveBySourceEntity(ctx context.Context, sourceEntity string) ([]SyncConfiguration, error) {
	filter := bson.M{
		"source_entity": sourceEntity,
		"status":        StatusActive,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cfgs []SyncConfiguration
	if err = cursor.All(ctx, &cfgs); err != nil {
		return nil, err
	}

	return cfgs, nil
}

func (r *SyncConfigRepositoryImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	updates["updated_at"] = time.Now()
	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
	)
	return err
}

func (r *SyncConfigRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

type FieldMappingRepositoryImpl struct {
	collection *mongo.Collection
}

func NewFieldMappingRepository(db *database.MongodbDB) FieldMappingRepository {
	return &FieldMappingRepositoryImpl{
		collection: db.DB.Collection("field_mappings"),
	}
}

// Replace swaps the full mapping set of one configuration. Mappings are
// always saved as a unit so the dispatch side sees a consistent snapshot.
func (r *FieldMappingRepositoryImpl) Replace(ctx context.Context, configID primitive.ObjectID, mappings []FieldMapping) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"sync_configuration_id": configID}); err != nil {
		return err
	}

	if len(mappings) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(mappings))
	now := time.Now()
	for i := range mappings {
		if mappings[i].ID.IsZero() {
			mappings[i].ID = primitive.NewObjectID()
		}
		mappings[i].SyncConfigurationID = configID
		mappings[i].CreatedAt = now
		mappings[i].UpdatedAt = now
		docs = append(docs, mappings[i])
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *FieldMappingRepositoryImpl) ListByConfiguration(ctx context.Context, configID primitive.ObjectID) ([]FieldMapping, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"sync_configuration_id": configID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []FieldMapping
	if err = cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}

	return mappings, nil
}

func (r *FieldMappingRepositoryImpl) DeleteByConfiguration(ctx context.Context, configID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sync_configuration_id": configID})
	return err
}
