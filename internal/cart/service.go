package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/barcode"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/logger"
	"github.com/shopspring/decimal"
)

// Service applies the bill rules: validation, pricing and stock checks.
type Service interface {
	AddLine(ctx context.Context, c *Cart, input LineInput) (*Line, error)
	AddNewItem(ctx context.Context, c *Cart, input NewItemInput) (*Line, error)
	RemoveLine(ctx context.Context, c *Cart, index int) error
}

// LineInput describes a line to add. A nil ItemID makes a custom line, which
// needs its own name and price. For catalog lines Name and UnitPrice override
// the catalog values when set.
type LineInput struct {
	ItemID    *uint
	Name      string
	Barcode   string
	UnitPrice *decimal.Decimal
	Quantity  decimal.Decimal
}

// NewItemInput is an unknown scanned item the cashier chose to save to the catalog.
type NewItemInput struct {
	Name      string
	Barcode   string
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
}

type itemReader interface {
	FindItemByID(ctx context.Context, id uint) (*models.Item, error)
}

type itemCreator interface {
	CreateItem(ctx context.Context, input catalog.ItemInput) (*catalog.ItemDTO, error)
	FindCategoryByName(ctx context.Context, name string) (*catalog.CategoryDTO, error)
}

type service struct {
	items   itemReader
	catalog itemCreator
	logg    *logger.Logger
}

func NewService(items itemReader, cat itemCreator, logg *logger.Logger) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item reader required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{items: items, catalog: cat, logg: logg}, nil
}

// AddLine validates and appends a line. The stock check compares the requested
// quantity against the item's current stock only; lines already on the bill
// for the same item are not counted.
func (s *service) AddLine(ctx context.Context, c *Cart, input LineInput) (*Line, error) {
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	if !input.Quantity.IsPositive() {
		return nil, reject(ReasonNonPositiveQuantity, "quantity must be greater than zero", nil)
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative").
			WithDetails(map[string]any{"field": "unit_price"})
	}

	var (
		line Line
		err  error
	)
	if input.ItemID == nil {
		line, err = customLine(input)
	} else {
		line, err = s.catalogLine(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	c.append(line)
	added := c.lines[len(c.lines)-1]

	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"cart_id": c.ID,
		"custom":  added.Custom,
		"lines":   c.Len(),
	}), "cart line added")
	return &added, nil
}

func customLine(input LineInput) (Line, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Line{}, reject(ReasonMissingName, "name is required for a custom line", nil)
	}
	if input.UnitPrice == nil {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price is required for a custom line").
			WithDetails(map[string]any{"field": "unit_price"})
	}
	line := Line{
		Name:      name,
		UnitPrice: *input.UnitPrice,
		UnitCost:  *input.UnitPrice,
		Quantity:  input.Quantity,
		Custom:    true,
	}
	if code := barcode.Normalize(input.Barcode); code != "" {
		line.Barcode = &code
	}
	return line, nil
}

func (s *service) catalogLine(ctx context.Context, input LineInput) (Line, error) {
	item, err := s.items.FindItemByID(ctx, *input.ItemID)
	if db.IsNotFound(err) {
		return Line{}, reject(ReasonItemNotFound, "item no longer exists", map[string]any{"item_id": *input.ItemID})
	}
	if err != nil {
		return Line{}, repo.Classify(err, "load item")
	}

	available := decimal.Max(decimal.Zero, item.StockCount)
	if input.Quantity.GreaterThan(available) {
		return Line{}, reject(ReasonInsufficientStock,
			fmt.Sprintf("requested %s of %q but only %s in stock", input.Quantity, item.Name, available),
			map[string]any{
				"item_id":   item.ID,
				"requested": input.Quantity.String(),
				"available": available.String(),
			})
	}

	name := item.Name
	if override := strings.TrimSpace(input.Name); override != "" {
		name = override
	}
	price := item.Price
	if input.UnitPrice != nil {
		price = *input.UnitPrice
	}

	id := item.ID
	return Line{
		ItemID:    &id,
		Name:      name,
		Barcode:   item.Barcode,
		UnitPrice: price,
		UnitCost:  item.PurchasePrice,
		Quantity:  input.Quantity,
	}, nil
}

// AddNewItem saves an unknown item to the catalog under the default category,
// with cost equal to price and stock equal to the quantity sold, then bills it.
func (s *service) AddNewItem(ctx context.Context, c *Cart, input NewItemInput) (*Line, error) {
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, reject(ReasonMissingName, "name is required to save the item", nil)
	}
	if !input.Quantity.IsPositive() {
		return nil, reject(ReasonNonPositiveQuantity, "quantity must be greater than zero", nil)
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative").
			WithDetails(map[string]any{"field": "unit_price"})
	}
	code := barcode.Normalize(input.Barcode)
	if code != "" && !barcode.Valid(code) {
		return nil, reject(ReasonInvalidBarcode, "barcode must be 8, 12 or 13 digits", map[string]any{"barcode": code})
	}

	var categoryID *uint
	category, err := s.catalog.FindCategoryByName(ctx, models.DefaultCategoryName)
	switch {
	case err == nil:
		categoryID = &category.ID
	case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound:
		// default category missing: leave unassigned
	default:
		return nil, err
	}

	created, err := s.catalog.CreateItem(ctx, catalog.ItemInput{
		Name:          name,
		CategoryID:    categoryID,
		Barcode:       code,
		Price:         input.UnitPrice,
		PurchasePrice: input.UnitPrice,
		StockCount:    input.Quantity,
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"cart_id": c.ID, "item_id": created.ID}), "ad-hoc item saved to catalog")

	price := input.UnitPrice
	return s.AddLine(ctx, c, LineInput{ItemID: &created.ID, UnitPrice: &price, Quantity: input.Quantity})
}

func (s *service) RemoveLine(ctx context.Context, c *Cart, index int) error {
	if c == nil {
		return fmt.Errorf("cart required")
	}
	if err := c.RemoveLine(index); err != nil {
		return err
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"cart_id": c.ID, "lines": c.Len()}), "cart line removed")
	return nil
}
