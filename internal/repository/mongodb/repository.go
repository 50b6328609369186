package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/inventory-pulse/internal/domain/models"
)

const (
	itemCollection   = "item_masters"
	recordCollection = "inventory_records"
)

// Repository defines the persistence operations the services depend on.
// Reads never mutate the store; writes are idempotent upserts keyed by
// (itemId) for the catalog and (itemId, date) for daily records.
type Repository interface {
	ListItems(ctx context.Context) ([]models.ItemMaster, error)
	ListRecords(ctx context.Context, start, end *time.Time) ([]models.InventoryRecord, error)
	ListRecordPage(ctx context.Context, skip, limit int64) ([]models.InventoryRecord, error)
	CountRecords(ctx context.Context) (int64, error)
	UpsertItems(ctx context.Context, items []models.ItemMaster) (int64, error)
	UpsertRecords(ctx context.Context, records []models.InventoryRecord) (int64, error)
}

var _ Repository = (*MongoDBRepository)(nil)

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// EnsureIndexes creates the unique keys both collections rely on. Safe to
// call repeatedly; Mongo treats existing identical indexes as a no-op.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.items().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "itemId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create item index: %w", err)
	}

	_, err = r.records().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "itemId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create record index: %w", err)
	}

	return nil
}

// ListItems returns the full item catalog.
func (r *MongoDBRepository) ListItems(ctx context.Context) ([]models.ItemMaster, error) {
	cursor, err := r.items().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	var items []models.ItemMaster
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

// ListRecords returns daily records, optionally bounded to an inclusive
// [start, end] date range pushed down as a range scan.
func (r *MongoDBRepository) ListRecords(ctx context.Context, start, end *time.Time) ([]models.InventoryRecord, error) {
	filter := bson.M{}
	if start != nil || end != nil {
		dateFilter := bson.M{}
		if start != nil {
			dateFilter["$gte"] = *start
		}
		if end != nil {
			dateFilter["$lte"] = *end
		}
		filter["date"] = dateFilter
	}

	cursor, err := r.records().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	var records []models.InventoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// ListRecordPage returns one window of the full record set, newest date
// first. Ties on date break by itemId so repeated reads of a page match.
func (r *MongoDBRepository) ListRecordPage(ctx context.Context, skip, limit int64) ([]models.InventoryRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "itemId", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.records().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find record page: %w", err)
	}

	var records []models.InventoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode record page: %w", err)
	}
	return records, nil
}

// CountRecords returns the total number of daily records in the store.
func (r *MongoDBRepository) CountRecords(ctx context.Context) (int64, error) {
	total, err := r.records().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return total, nil
}

// UpsertItems writes catalog entries keyed by itemId and reports how many
// documents were inserted or modified.
func (r *MongoDBRepository) UpsertItems(ctx context.Context, items []models.ItemMaster) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"itemId": item.ItemID}).
			SetUpdate(bson.M{"$set": item}).
			SetUpsert(true))
	}

	result, err := r.items().BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("bulk upsert items: %w", err)
	}
	return result.UpsertedCount + result.ModifiedCount, nil
}

// UpsertRecords writes daily records keyed by (itemId, date) and reports how
// many documents were inserted or modified.
func (r *MongoDBRepository) UpsertRecords(ctx context.Context, records []models.InventoryRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"itemId": record.ItemID, "date": record.Date}).
			SetUpdate(bson.M{"$set": record}).
			SetUpsert(true))
	}

	result, err := r.records().BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("bulk upsert records: %w", err)
	}
	return result.UpsertedCount + result.ModifiedCount, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) items() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(itemCollection)
}

func (r *MongoDBRepository) records() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(recordCollection)
}
