package historical

import (
	"context"
	"time"

	"go-cet-sync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BackfillRunRepository interface {
	Create(ctx context.Context, run *BackfillRun) error
	Update(ctx context.Context, run *BackfillRun) error
	List(ctx context.Context, configurationID string, limit int64) ([]BackfillRun, error)
}

type BackfillScheduleRepository interface {
	Create(ctx context.Context, schedule *BackfillSchedule) error
	Get(ctx context.Context, id string) (*BackfillSchedule, error)
	List(ctx context.Context) ([]BackfillSchedule, error)
	ListActive(ctx context.Context) ([]BackfillSchedule, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type BackfillRunRepositoryImpl struct {
	collection *mongo.Collection
}

func NewBackfillRunRepository(db *database.MongodbDB) BackfillRunRepository {
	return &BackfillRunRepositoryImpl{
		collection: db.DB.Collection("backfill_runs"),
	}
}

func (r *BackfillRunRepositoryImpl) Create(ctx context.Context, run *BackfillRun) error {
	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	if run.StartTime.IsZero() {
		run.StartTime = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, run)
	return err
}

func (r *BackfillRunRepositoryImpl) Update(ctx context.Context, run *BackfillRun) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": run.ID}, run)
	return err
}

func (r *BackfillRunRepositoryImpl) List(ctx context.Context, configurationID string, limit int64) ([]BackfillRun, error) {
	filter := bson.M{}
	if configurationID != "" {
		filter["configuration_id"] = configurationID
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []BackfillRun
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}

	return runs, nil
}

type BackfillScheduleRepositoryImpl struct {
	collection *mongo.Collection
}

func NewBackfillScheduleRepository(db *database.MongodbDB) BackfillScheduleRepository {
	return &BackfillScheduleRepositoryImpl{
		collection: db.DB.Collection("backfill_schedules"),
	}
}

func (r *BackfillScheduleRepositoryImpl) Create(ctx context.Context, schedule *BackfillSchedule) error {
	if schedule.ID.IsZero() {
		schedule.ID = primitive.NewObjectID()
	}
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, schedule)
	return err
}

func (r *BackfillScheduleRepositoryImpl) Get(ctx context.Context, id string) (*BackfillSchedule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var schedule BackfillSchedule
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&schedule)
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

func (r *BackfillScheduleRepositoryImpl) List(ctx context.Context) ([]BackfillSchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []BackfillSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *BackfillScheduleRepositoryImpl) ListActive(ctx context.Context) ([]BackfillSchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []BackfillSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *BackfillScheduleRepositoryImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
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

func (r *BackfillScheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
