package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amadcodez/vendor-ready/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ordersCollection     = "orders"
	storesCollection     = "store_record"
	itemsCollection      = "item_record"
	categoriesCollection = "store_item_category"
)

// MongoRepository stores orders, stores and items as documents, with line
// items embedded in their order.
type MongoRepository struct {
	client     *mongo.Client
	orders     *mongo.Collection
	stores     *mongo.Collection
	items      *mongo.Collection
	categories *mongo.Collection
}

// ConnectMongo dials uri, pings the primary and ensures the query indexes exist.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	repo := NewMongoRepository(client, client.Database(database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		slog.Warn("Failed to create mongo indexes", "error", err)
	}
	return repo, nil
}

func NewMongoRepository(client *mongo.Client, db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		client:     client,
		orders:     db.Collection(ordersCollection),
		stores:     db.Collection(storesCollection),
		items:      db.Collection(itemsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "cartItems.storeID", Value: 1}}},
		{Keys: bson.D{{Key: "orderID", Value: 1}}},
	}); err != nil {
		return err
	}
	if _, err := r.stores.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "storeID", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userID", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := r.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "storeID", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "itemPrice", Value: 1}}},
	})
	return err
}

func (r *MongoRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	_, err := r.orders.InsertOne(ctx, order)
	return err
}

// storeFilter matches orders that embed at least one line item of storeID.
func storeFilter(storeID string) bson.M {
	return bson.M{"cartItems.storeID": storeID}
}

func byDate() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
}

func (r *MongoRepository) FindOrdersByStore(ctx context.Context, storeID string) ([]models.Order, error) {
	return r.findOrders(ctx, storeFilter(storeID))
}

func (r *MongoRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	return r.findOrders(ctx, bson.M{})
}

func (r *MongoRepository) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := r.orders.Find(ctx, filter, byDate())
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoRepository) CreateStore(ctx context.Context, store *models.Store) error {
	_, err := r.stores.InsertOne(ctx, store)
	return err
}

func (r *MongoRepository) FindStore(ctx context.Context, storeID string) (*models.Store, error) {
	return r.findStore(ctx, bson.M{"storeID": storeID})
}

func (r *MongoRepository) FindStoreByUser(ctx context.Context, userID string) (*models.Store, error) {
	return r.findStore(ctx, bson.M{"userID": userID})
}

func (r *MongoRepository) findStore(ctx context.Context, filter bson.M) (*models.Store, error) {
	var store models.Store
	err := r.stores.FindOne(ctx, filter).Decode(&store)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *MongoRepository) ListStores(ctx context.Context) ([]models.Store, error) {
	cur, err := r.stores.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	stores := []models.Store{}
	if err := cur.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *MongoRepository) CreateItem(ctx context.Context, item *models.Item) error {
	_, err := r.items.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) FindItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := r.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func itemFilter(q ItemQuery) bson.M {
	filter := bson.M{}
	if q.StoreID != "" {
		filter["storeID"] = q.StoreID
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	return filter
}

func itemSort(by models.ItemSort) *options.FindOptions {
	switch by {
	case models.ItemSortPriceAsc:
		return options.Find().SetSort(bson.D{{Key: "itemPrice", Value: 1}})
	case models.ItemSortPriceDesc:
		return options.Find().SetSort(bson.D{{Key: "itemPrice", Value: -1}})
	}
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
}

func (r *MongoRepository) FindItems(ctx context.Context, q ItemQuery) ([]models.Item, error) {
	cur, err := r.items.Find(ctx, itemFilter(q), itemSort(q.Sort))
	if err != nil {
		return nil, err
	}
	items := []models.Item{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	res, err := r.items.ReplaceOne(ctx, bson.M{"_id": item.ID, "storeID": item.StoreID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteItems(ctx context.Context, storeID string, ids []string) (int64, error) {
	res, err := r.items.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "storeID": storeID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) CreateItemCategory(ctx context.Context, category *models.ItemCategory) error {
	_, err := r.categories.InsertOne(ctx, category)
	return err
}

func (r *MongoRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
