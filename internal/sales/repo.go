package sales

import (
	"context"

	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	"github.com/angelmondragon/counterpos/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists sales and their lines.
type Repository struct {
	base repo.Base
}

// DetailRow is a sale line joined with the item's current name and barcode.
type DetailRow struct {
	models.SaleDetail `gorm:"embedded"`
	ItemName          string  `gorm:"column:item_name"`
	ItemBarcode       *string `gorm:"column:item_barcode"`
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.base.DB(ctx).Omit("Details").Create(sale).Error
}

func (r *Repository) CreateDetail(ctx context.Context, detail *models.SaleDetail) error {
	return r.base.DB(ctx).Create(detail).Error
}

func (r *Repository) FindSale(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := r.base.DB(ctx).First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *Repository) FindDetail(ctx context.Context, id uint) (*models.SaleDetail, error) {
	var detail models.SaleDetail
	if err := r.base.DB(ctx).First(&detail, id).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *Repository) ListDetails(ctx context.Context, saleID uint) ([]models.SaleDetail, error) {
	var rows []models.SaleDetail
	if err := r.base.DB(ctx).Where("sale_id = ?", saleID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDetailRows returns the canonical sale detail read, ordered by item name.
func (r *Repository) ListDetailRows(ctx context.Context, saleID uint) ([]DetailRow, error) {
	var rows []DetailRow
	if err := r.base.DB(ctx).
		Table("sale_details").
		Select("sale_details.*, items.name AS item_name, items.barcode AS item_barcode").
		Joins("JOIN items ON items.id = sale_details.item_id").
		Where("sale_details.sale_id = ?", saleID).
		Order("items.name ASC").
		Order("sale_details.id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateDetail(ctx context.Context, detail *models.SaleDetail) error {
	return r.base.DB(ctx).
		Model(&models.SaleDetail{}).
		Where("id = ?", detail.ID).
		Updates(map[string]any{
			"quantity":   detail.Quantity,
			"price_each": detail.PriceEach,
			"subtotal":   detail.Subtotal,
		}).Error
}

func (r *Repository) DeleteDetail(ctx context.Context, id uint) error {
	return deleteOne(r.base.DB(ctx), &models.SaleDetail{}, id)
}

// DeleteSale removes the sale; its lines go with it through the FK cascade.
func (r *Repository) DeleteSale(ctx context.Context, id uint) error {
	return deleteOne(r.base.DB(ctx), &models.Sale{}, id)
}

func (r *Repository) UpdateSaleTotals(ctx context.Context, id uint, totalPrice, totalPurchase decimal.Decimal) error {
	return r.base.DB(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_price":          totalPrice,
			"total_purchase_price": totalPurchase,
		}).Error
}

// ListSales returns every sale, newest first.
func (r *Repository) ListSales(ctx context.Context) ([]models.Sale, error) {
	var rows []models.Sale
	if err := r.base.DB(ctx).Order("datetime DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSalesPage returns up to limit sales older than cursor, newest first,
// and the cursor for the following page when more rows exist.
func (r *Repository) ListSalesPage(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Sale, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(limit)
	query := r.base.DB(ctx).Model(&models.Sale{})
	if cursor != nil {
		query = query.Where("(datetime, id) < (?, ?)", cursor.At, cursor.ID)
	}

	var rows []models.Sale
	if err := query.Order("datetime DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[normalized-1]
		return rows, &pagination.Cursor{At: last.Datetime, ID: last.ID}, nil
	}
	return rows, nil, nil
}

// LatestSale returns the most recent sale or gorm.ErrRecordNotFound.
func (r *Repository) LatestSale(ctx context.Context) (*models.Sale, error) {
	var sale models.Sale
	if err := r.base.DB(ctx).Order("datetime DESC").Order("id DESC").Take(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func deleteOne(db *gorm.DB, model any, id uint) error {
	res := db.Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
