package record

import (
	"context"
	"strings"

	"go-cet-sync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordRepository reads CRM records. The record store is owned by the CRM
// platform; this side never writes to it.
type RecordRepository interface {
	Get(ctx context.Context, entity EntityType, id string) (SourceRecord, error)
	// ListPage returns up to limit records of one entity type ordered by _id,
	// starting after the given id. Pass a zero ObjectID for the first page.
	// Only the requested fields (plus Id) are materialized.
	ListPage(ctx context.Context, entity EntityType, fields []string, afterID primitive.ObjectID, limit int64) ([]SourceRecord, primitive.ObjectID, error)
	Count(ctx context.Context, entity EntityType) (int64, error)
}

type RecordRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRecordRepository(mongodb *database.MongodbDB) RecordRepository {
	return &RecordRepositoryImpl{
		Collection: mongodb.DB.Collection("crm_records"),
	}
}

type recordDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	Entity string             `bson:"entity"`
	Data   map[string]any     `bson:"data"`
}

func (d *recordDoc) flatten() SourceRecord {
	rec := make(SourceRecord, len(d.Data)+1)
	for k, v := range d.Data {
		rec[k] = v
	}
	if _, ok := rec["Id"]; !ok {
		rec["Id"] = d.ID.Hex()
	}
	return rec
}

func (r *RecordRepositoryImpl) Get(ctx context.Context, entity EntityType, id string) (SourceRecord, error) {
	filter := bson.M{"entity": string(entity)}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter["_id"] = oid
	} else {
		filter["data.Id"] = id
	}

	var doc recordDoc
	if err := r.Collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, err
	}

	return doc.flatten(), nil
}

func (r *RecordRepositoryImpl) ListPage(ctx context.Context, entity EntityType, fields []string, afterID primitive.ObjectID, limit int64) ([]SourceRecord, primitive.ObjectID, error) {
	filter := bson.M{"entity": string(entity)}
	if !afterID.IsZero() {
		filter["_id"] = bson.M{"$gt": afterID}
	}

	projection := bson.M{"entity": 1}
	for _, f := range fields {
		// A dotted relationship path projects its whole top-level branch.
		top := f
		if i := strings.IndexByte(f, '.'); i >= 0 {
			top = f[:i]
		}
		projection["data."+top] = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(limit).
		SetProjection(projection)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, afterID, err
	}
	defer cursor.Close(ctx)

	var records []SourceRecord
	lastID := afterID
	for cursor.Next(ctx) {
		var doc recordDoc
		if err := cursor.Decode(&doc); err != nil {
			return records, lastID, err
		}
		records = append(records, doc.flatten())
		lastID = doc.ID
	}

	return records, lastID, cursor.Err()
}

func (r *RecordRepositoryImpl) Count(ctx context.Context, entity EntityType) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"entity": string(entity)})
}
