package cart

import (
	"context"
	"testing"

	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     Service
	catalog catalog.Service
	items   *catalog.Repository
	widget  *catalog.ItemDTO
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	items := catalog.NewRepository(client.DB())
	cat, err := catalog.NewService(items, nil)
	require.NoError(t, err)
	svc, err := NewService(items, cat, nil)
	require.NoError(t, err)

	widget, err := cat.CreateItem(context.Background(), catalog.ItemInput{
		Name:          "Widget",
		Barcode:       "12345678",
		Price:         d("10"),
		PurchasePrice: d("6"),
		StockCount:    d("5"),
	})
	require.NoError(t, err)
	return fixture{svc: svc, catalog: cat, items: items, widget: widget}
}

func TestAddLineUsesCatalogPriceAndCost(t *testing.T) {
	f := newFixture(t)
	c := New("c1")

	line, err := f.svc.AddLine(context.Background(), c, LineInput{ItemID: &f.widget.ID, Quantity: d("5")})
	require.NoError(t, err)
	assert.Equal(t, "Widget", line.Name)
	assert.True(t, line.UnitPrice.Equal(d("10")))
	assert.True(t, line.UnitCost.Equal(d("6")))
	assert.True(t, line.LineTotal.Equal(d("50")))
	assert.False(t, line.Custom)
	assert.True(t, c.Totals().TotalPurchasePrice.Equal(d("30")))
}

func TestAddLineInsufficientStockLeavesCartUnchanged(t *testing.T) {
	f := newFixture(t)
	c := New("c1")

	_, err := f.svc.AddLine(context.Background(), c, LineInput{ItemID: &f.widget.ID, Quantity: d("6")})
	require.Error(t, err)
	assert.Equal(t, ReasonInsufficientStock, ReasonOf(err))
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.As(err).Code())
	assert.True(t, c.IsEmpty())
}

func TestAddLineNegativeStockCountsAsZero(t *testing.T) {
	f := newFixture(t)
	_, err := f.items.AdjustStock(context.Background(), f.widget.ID, d("-8"))
	require.NoError(t, err)

	_, err = f.svc.AddLine(context.Background(), New("c1"), LineInput{ItemID: &f.widget.ID, Quantity: d("0.5")})
	assert.Equal(t, ReasonInsufficientStock, ReasonOf(err))
}

// The stock check is per add; earlier lines for the same item are not counted.
func TestAddLineStockCheckIsPerAdd(t *testing.T) {
	f := newFixture(t)
	c := New("c1")
	ctx := context.Background()

	_, err := f.svc.AddLine(ctx, c, LineInput{ItemID: &f.widget.ID, Quantity: d("4")})
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, c, LineInput{ItemID: &f.widget.ID, Quantity: d("4")})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestAddLineRejections(t *testing.T) {
	f := newFixture(t)
	c := New("c1")
	ctx := context.Background()
	missing := uint(9999)
	price := d("3")

	tests := []struct {
		name  string
		input LineInput
		want  Reason
	}{
		{"zero quantity", LineInput{ItemID: &f.widget.ID, Quantity: d("0")}, ReasonNonPositiveQuantity},
		{"negative quantity", LineInput{Name: "x", UnitPrice: &price, Quantity: d("-1")}, ReasonNonPositiveQuantity},
		{"unknown item", LineInput{ItemID: &missing, Quantity: d("1")}, ReasonItemNotFound},
		{"custom without name", LineInput{Name: "  ", UnitPrice: &price, Quantity: d("1")}, ReasonMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddLine(ctx, c, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.want, ReasonOf(err))
		})
	}
	assert.True(t, c.IsEmpty())

	negative := d("-1")
	_, err := f.svc.AddLine(ctx, c, LineInput{ItemID: &f.widget.ID, UnitPrice: &negative, Quantity: d("1")})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddCustomLineCostEqualsPrice(t *testing.T) {
	f := newFixture(t)
	c := New("c1")
	price := d("4.25")

	line, err := f.svc.AddLine(context.Background(), c, LineInput{Name: "Gift wrap", Barcode: "123", UnitPrice: &price, Quantity: d("2")})
	require.NoError(t, err)
	assert.True(t, line.Custom)
	assert.Nil(t, line.ItemID)
	assert.Equal(t, "123", *line.Barcode, "custom line barcodes are not validated")
	assert.True(t, line.UnitCost.Equal(price))
	assert.True(t, c.Totals().TotalPrice.Equal(d("8.5")))
}

func TestAddNewItemSavesThenBills(t *testing.T) {
	f := newFixture(t)
	c := New("c1")
	ctx := context.Background()

	line, err := f.svc.AddNewItem(ctx, c, NewItemInput{Name: "Lemonade", Barcode: "4006381333931", UnitPrice: d("2"), Quantity: d("3")})
	require.NoError(t, err)
	require.NotNil(t, line.ItemID)
	assert.False(t, line.Custom)

	saved, err := f.catalog.GetItem(ctx, *line.ItemID)
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", saved.CategoryName)
	assert.True(t, saved.PurchasePrice.Equal(d("2")))
	assert.True(t, saved.StockCount.Equal(d("3")))
	assert.Equal(t, 1, c.Len())
}

func TestAddNewItemRejectsInvalidBarcode(t *testing.T) {
	f := newFixture(t)
	c := New("c1")

	_, err := f.svc.AddNewItem(context.Background(), c, NewItemInput{Name: "Lemonade", Barcode: "12345", UnitPrice: d("2"), Quantity: d("1")})
	assert.Equal(t, ReasonInvalidBarcode, ReasonOf(err))

	_, err = f.svc.AddNewItem(context.Background(), c, NewItemInput{UnitPrice: d("2"), Quantity: d("1")})
	assert.Equal(t, ReasonMissingName, ReasonOf(err))
	assert.True(t, c.IsEmpty())

	items, err := f.catalog.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestServiceRemoveLine(t *testing.T) {
	f := newFixture(t)
	c := New("c1")
	ctx := context.Background()

	_, err := f.svc.AddLine(ctx, c, LineInput{ItemID: &f.widget.ID, Quantity: d("1")})
	require.NoError(t, err)

	require.Error(t, f.svc.RemoveLine(ctx, c, 3))
	require.NoError(t, f.svc.RemoveLine(ctx, c, 0))
	assert.True(t, c.IsEmpty())
}
