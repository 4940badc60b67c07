package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists categories and items.
type Repository struct {
	base repo.Base
}

// ItemRow is an item joined with its category name.
type ItemRow struct {
	models.Item  `gorm:"embedded"`
	CategoryName *string `gorm:"column:category_name"`
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.base.DB(ctx).Create(category).Error
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.base.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var row models.Category
	if err := r.base.DB(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.base.DB(ctx).Create(item).Error
}

func (r *Repository) SaveItem(ctx context.Context, item *models.Item) error {
	return r.base.DB(ctx).Save(item).Error
}

// DeleteItem removes the item; its sale_details rows go with it through the FK cascade.
func (r *Repository) DeleteItem(ctx context.Context, id uint) error {
	res := r.base.DB(ctx).Delete(&models.Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindItemByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.base.DB(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByBarcode is an exact match on the unique barcode column.
func (r *Repository) FindItemByBarcode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	if err := r.base.DB(ctx).Where("barcode = ?", code).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindFirstByName returns the alphabetically first item whose name contains
// query (case-sensitive).
func (r *Repository) FindFirstByName(ctx context.Context, query string) (*models.Item, error) {
	var item models.Item
	if err := r.base.DB(ctx).
		Where("instr(name, ?) > 0", query).
		Order("name ASC").
		Order("id ASC").
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SuggestNames returns item names containing fragment, ignoring ASCII case.
func (r *Repository) SuggestNames(ctx context.Context, fragment string, limit int) ([]string, error) {
	var names []string
	if err := r.base.DB(ctx).
		Model(&models.Item{}).
		Where("instr(lower(name), ?) > 0", strings.ToLower(fragment)).
		Order("name ASC").
		Limit(limit).
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *Repository) itemsWithCategory(ctx context.Context) *gorm.DB {
	return r.base.DB(ctx).
		Table("items").
		Select("items.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = items.category_id")
}

func (r *Repository) GetItemRow(ctx context.Context, id uint) (*ItemRow, error) {
	var row ItemRow
	if err := r.itemsWithCategory(ctx).Where("items.id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListItemRows(ctx context.Context) ([]ItemRow, error) {
	var rows []ItemRow
	if err := r.itemsWithCategory(ctx).Order("items.name ASC").Order("items.id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchItemRows matches a name fragment or an exact barcode.
func (r *Repository) SearchItemRows(ctx context.Context, query string) ([]ItemRow, error) {
	var rows []ItemRow
	if err := r.itemsWithCategory(ctx).
		Where("instr(items.name, ?) > 0 OR items.barcode = ?", query, query).
		Order("items.name ASC").
		Order("items.id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AdjustStock adds delta to the item's stock_count and returns the new value.
func (r *Repository) AdjustStock(ctx context.Context, id uint, delta decimal.Decimal) (decimal.Decimal, error) {
	item, err := r.FindItemByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	next := item.StockCount.Add(delta)
	if err := r.base.DB(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]any{"stock_count": next, "updated_at": time.Now()}).Error; err != nil {
		return decimal.Zero, err
	}
	return next, nil
}
