package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amadcodez/vendor-ready/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// orderRecord is the relational shape of models.Order. Line items live in
// their own table, ordered by Position.
type orderRecord struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       string `gorm:"size:8;index;not null"`
	Email         string `gorm:"not null"`
	FirstName     string `gorm:"not null"`
	LastName      string
	Address       string `gorm:"not null"`
	City          string `gorm:"not null"`
	Phone         string `gorm:"not null"`
	PaymentMethod string `gorm:"type:VARCHAR(10);not null"`
	UID           string
	ProofImage    string           `gorm:"type:text"`
	Total         float64          `gorm:"not null"`
	Date          string           `gorm:"index;not null"`
	Items         []lineItemRecord `gorm:"foreignKey:OrderRecordID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
}

func (orderRecord) TableName() string { return "orders" }

type lineItemRecord struct {
	ID            uint `gorm:"primaryKey"`
	OrderRecordID uint `gorm:"index"`
	Position      int
	ItemID        string
	Title         string
	Price         float64
	Image         string `gorm:"type:text"`
	Quantity      int
	StoreID       string `gorm:"index"`
}

func (lineItemRecord) TableName() string { return "order_line_items" }

type storeRecord struct {
	ID            uint   `gorm:"primaryKey"`
	StoreID       string `gorm:"uniqueIndex;not null"`
	UserID        string `gorm:"index"`
	StoreName     string
	ItemType      string
	NumCategories int
	Location      string
	CreatedAt     time.Time
}

func (storeRecord) TableName() string { return "store_record" }

// itemRecord keeps the image data URIs as a JSON array in one text column.
type itemRecord struct {
	ID              string `gorm:"primaryKey;size:36"`
	StoreID         string `gorm:"index;not null"`
	ItemName        string `gorm:"not null"`
	ItemDescription string `gorm:"type:text"`
	ItemPrice       float64
	CompareAtPrice  float64
	CostPerItem     float64
	Quantity        int
	Category        string   `gorm:"index"`
	ItemImages      []string `gorm:"type:text;serializer:json"`
	CreatedAt       time.Time
}

func (itemRecord) TableName() string { return "item_record" }

type itemCategoryRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index"`
	StoreID   string `gorm:"index"`
	ItemType  string
	CreatedAt time.Time
}

func (itemCategoryRecord) TableName() string { return "store_item_category" }

func toItemRecord(i *models.Item) itemRecord {
	return itemRecord{
		ID:              i.ID,
		StoreID:         i.StoreID,
		ItemName:        i.ItemName,
		ItemDescription: i.ItemDescription,
		ItemPrice:       i.ItemPrice,
		CompareAtPrice:  i.CompareAtPrice,
		CostPerItem:     i.CostPerItem,
		Quantity:        i.Quantity,
		Category:        i.Category,
		ItemImages:      i.ItemImages,
		CreatedAt:       i.CreatedAt,
	}
}

func (rec itemRecord) toModel() models.Item {
	return models.Item{
		ID:              rec.ID,
		StoreID:         rec.StoreID,
		ItemName:        rec.ItemName,
		ItemDescription: rec.ItemDescription,
		ItemPrice:       rec.ItemPrice,
		CompareAtPrice:  rec.CompareAtPrice,
		CostPerItem:     rec.CostPerItem,
		Quantity:        rec.Quantity,
		Category:        rec.Category,
		ItemImages:      rec.ItemImages,
		CreatedAt:       rec.CreatedAt,
	}
}

func toOrderRecord(o *models.Order) orderRecord {
	rec := orderRecord{
		OrderID:       o.OrderID,
		Email:         o.Email,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Address:       o.Address,
		City:          o.City,
		Phone:         o.Phone,
		PaymentMethod: string(o.PaymentMethod),
		UID:           o.UID,
		ProofImage:    o.ProofImage,
		Total:         o.Total,
		Date:          o.Date,
	}
	for i, item := range o.CartItems {
		rec.Items = append(rec.Items, lineItemRecord{
			Position: i,
			ItemID:   item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Image:    item.Image,
			Quantity: item.Quantity,
			StoreID:  item.StoreID,
		})
	}
	return rec
}

func (rec orderRecord) toModel() models.Order {
	o := models.Order{
		OrderID:       rec.OrderID,
		Email:         rec.Email,
		FirstName:     rec.FirstName,
		LastName:      rec.LastName,
		Address:       rec.Address,
		City:          rec.City,
		Phone:         rec.Phone,
		PaymentMethod: models.PaymentMethod(rec.PaymentMethod),
		UID:           rec.UID,
		ProofImage:    rec.ProofImage,
		Total:         rec.Total,
		Date:          rec.Date,
		CartItems:     make([]models.CartLineItem, 0, len(rec.Items)),
	}
	for _, item := range rec.Items {
		o.CartItems = append(o.CartItems, models.CartLineItem{
			ID:       item.ItemID,
			Title:    item.Title,
			Price:    item.Price,
			Image:    item.Image,
			Quantity: item.Quantity,
			StoreID:  item.StoreID,
		})
	}
	return o
}

func (rec storeRecord) toModel() models.Store {
	return models.Store{
		StoreID:       rec.StoreID,
		UserID:        rec.UserID,
		StoreName:     rec.StoreName,
		ItemType:      rec.ItemType,
		NumCategories: rec.NumCategories,
		Location:      rec.Location,
		CreatedAt:     rec.CreatedAt,
	}
}

// PostgresRepository maps orders, stores and items onto relational tables through gorm.
type PostgresRepository struct {
	db *gorm.DB
}

// OpenPostgres connects with dsn and auto-migrates the tables.
func OpenPostgres(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	repo := NewPostgresRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return repo, nil
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&orderRecord{}, &lineItemRecord{}, &storeRecord{}, &itemRecord{}, &itemCategoryRecord{})
}

// InsertOrder writes the order row and its line items in one transaction.
func (r *PostgresRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	rec := toOrderRecord(order)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *PostgresRepository) FindOrdersByStore(ctx context.Context, storeID string) ([]models.Order, error) {
	db := r.db.WithContext(ctx)
	matching := db.Model(&lineItemRecord{}).Select("order_record_id").Where("store_id = ?", storeID)

	var recs []orderRecord
	if err := withItems(db).
		Where("id IN (?)", matching).
		Order("date ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return toOrders(recs), nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var recs []orderRecord
	if err := withItems(r.db.WithContext(ctx)).Order("date ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return toOrders(recs), nil
}

func toOrders(recs []orderRecord) []models.Order {
	orders := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, rec.toModel())
	}
	return orders
}

func (r *PostgresRepository) CreateStore(ctx context.Context, store *models.Store) error {
	rec := storeRecord{
		StoreID:       store.StoreID,
		UserID:        store.UserID,
		StoreName:     store.StoreName,
		ItemType:      store.ItemType,
		NumCategories: store.NumCategories,
		Location:      store.Location,
		CreatedAt:     store.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *PostgresRepository) FindStore(ctx context.Context, storeID string) (*models.Store, error) {
	return r.findStore(ctx, "store_id = ?", storeID)
}

func (r *PostgresRepository) FindStoreByUser(ctx context.Context, userID string) (*models.Store, error) {
	return r.findStore(ctx, "user_id = ?", userID)
}

func (r *PostgresRepository) findStore(ctx context.Context, query string, arg string) (*models.Store, error) {
	var rec storeRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	store := rec.toModel()
	return &store, nil
}

func (r *PostgresRepository) ListStores(ctx context.Context) ([]models.Store, error) {
	var recs []storeRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	stores := make([]models.Store, 0, len(recs))
	for _, rec := range recs {
		stores = append(stores, rec.toModel())
	}
	return stores, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *models.Item) error {
	rec := toItemRecord(item)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *PostgresRepository) FindItem(ctx context.Context, id string) (*models.Item, error) {
	var rec itemRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	item := rec.toModel()
	return &item, nil
}

func (r *PostgresRepository) FindItems(ctx context.Context, q ItemQuery) ([]models.Item, error) {
	db := r.db.WithContext(ctx)
	if q.StoreID != "" {
		db = db.Where("store_id = ?", q.StoreID)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	switch q.Sort {
	case models.ItemSortPriceAsc:
		db = db.Order("item_price ASC")
	case models.ItemSortPriceDesc:
		db = db.Order("item_price DESC")
	default:
		db = db.Order("created_at ASC")
	}

	var recs []itemRecord
	if err := db.Find(&recs).Error; err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, rec.toModel())
	}
	return items, nil
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	rec := toItemRecord(item)
	res := r.db.WithContext(ctx).
		Model(&itemRecord{}).
		Where("id = ? AND store_id = ?", item.ID, item.StoreID).
		Select("item_name", "item_description", "item_price", "compare_at_price",
			"cost_per_item", "quantity", "category", "item_images").
		Updates(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteItems(ctx context.Context, storeID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Delete(&itemRecord{})
	return res.RowsAffected, res.Error
}

func (r *PostgresRepository) CreateItemCategory(ctx context.Context, category *models.ItemCategory) error {
	rec := itemCategoryRecord{
		ID:        category.ID,
		UserID:    category.UserID,
		StoreID:   category.StoreID,
		ItemType:  category.ItemType,
		CreatedAt: category.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *PostgresRepository) Close(context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
