package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/barcode"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management.
type Service interface {
	CreateCategory(ctx context.Context, name string) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	FindCategoryByName(ctx context.Context, name string) (*CategoryDTO, error)

	CreateItem(ctx context.Context, input ItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uint, input ItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uint) error
	GetItem(ctx context.Context, id uint) (*ItemDTO, error)
	ListItems(ctx context.Context) ([]ItemDTO, error)
	Search(ctx context.Context, query string) ([]ItemDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(r *Repository, logg *logger.Logger) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: r, logg: logg}, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	if _, err := s.repo.FindCategoryByName(ctx, name); err == nil {
		return nil, duplicateCategory(name, nil)
	} else if !db.IsNotFound(err) {
		return nil, repo.Classify(err, "lookup category")
	}

	category := &models.Category{Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "categories.name") {
			return nil, duplicateCategory(name, err)
		}
		return nil, repo.Classify(err, "create category")
	}
	dto := NewCategoryDTO(*category)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, repo.Classify(err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCategoryDTO(row))
	}
	return out, nil
}

func (s *service) FindCategoryByName(ctx context.Context, name string) (*CategoryDTO, error) {
	row, err := s.repo.FindCategoryByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, repo.Classify(err, "find category")
	}
	dto := NewCategoryDTO(*row)
	return &dto, nil
}

func (s *service) CreateItem(ctx context.Context, input ItemInput) (*ItemDTO, error) {
	item := &models.Item{}
	if err := applyItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, classifyItemWrite(err, "create item")
	}
	s.logg.Info(s.logg.WithItemID(ctx, item.ID), "item created")
	return s.GetItem(ctx, item.ID)
}

func (s *service) UpdateItem(ctx context.Context, id uint, input ItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, repo.Classify(err, "load item")
	}
	if err := applyItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, classifyItemWrite(err, "update item")
	}
	return s.GetItem(ctx, item.ID)
}

// DeleteItem removes the item and, through the schema cascade, every sale line
// that referenced it. Sale totals are not recomputed.
func (s *service) DeleteItem(ctx context.Context, id uint) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return repo.Classify(err, "delete item")
	}
	s.logg.Warn(s.logg.WithItemID(ctx, id), "item deleted with its sale history lines")
	return nil
}

func (s *service) GetItem(ctx context.Context, id uint) (*ItemDTO, error) {
	row, err := s.repo.GetItemRow(ctx, id)
	if err != nil {
		return nil, repo.Classify(err, "load item")
	}
	dto := NewItemDTO(row.Item, row.CategoryName)
	return &dto, nil
}

func (s *service) ListItems(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.ListItemRows(ctx)
	if err != nil {
		return nil, repo.Classify(err, "list items")
	}
	return newItemDTOs(rows), nil
}

func (s *service) Search(ctx context.Context, query string) ([]ItemDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListItems(ctx)
	}
	rows, err := s.repo.SearchItemRows(ctx, query)
	if err != nil {
		return nil, repo.Classify(err, "search items")
	}
	return newItemDTOs(rows), nil
}

// ValidateItemInput checks an item payload without touching the store.
func ValidateItemInput(input ItemInput) error {
	return applyItemInput(&models.Item{}, input)
}

func applyItemInput(item *models.Item, input ItemInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	code := barcode.Normalize(input.Barcode)
	if code != "" && !barcode.Valid(code) {
		return pkgerrors.New(pkgerrors.CodeValidation, "barcode must be 8, 12 or 13 digits").
			WithDetails(map[string]any{"field": "barcode"})
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"price", input.Price},
		{"purchase_price", input.PurchasePrice},
		{"stock_count", input.StockCount},
	} {
		if f.value.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, f.name+" cannot be negative").
				WithDetails(map[string]any{"field": f.name})
		}
	}

	item.Name = name
	item.CategoryID = input.CategoryID
	item.Barcode = nil
	if code != "" {
		item.Barcode = &code
	}
	item.Price = input.Price
	item.PurchasePrice = input.PurchasePrice
	item.StockCount = input.StockCount
	item.PhotoPath = nil
	if photo := strings.TrimSpace(input.PhotoPath); photo != "" {
		item.PhotoPath = &photo
	}
	return nil
}

// duplicateCategory reports a unique name collision, caught either by the
// lookup before insert or by the index itself.
func duplicateCategory(name string, cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeIntegrity, cause, "category already exists").
		WithDetails(map[string]any{"field": "name", "name": name})
}

func classifyItemWrite(err error, action string) error {
	switch {
	case db.IsUniqueViolation(err, "items.barcode"):
		return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "barcode already assigned to another item").
			WithDetails(map[string]any{"field": "barcode"})
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "category does not exist").
			WithDetails(map[string]any{"field": "category_id"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, action+": not found")
	default:
		return repo.Classify(err, action)
	}
}
