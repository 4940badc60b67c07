package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/counterpos/internal/cart"
	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/sales"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client   *db.Client
	checkout Service
	carts    cart.Service
	catalog  catalog.Service
	items    *catalog.Repository
	reg      *prometheus.Registry
	a, b     *catalog.ItemDTO
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	items := catalog.NewRepository(client.DB())
	cat, err := catalog.NewService(items, nil)
	require.NoError(t, err)
	carts, err := cart.NewService(items, cat, nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	svc, err := NewService(client, sales.NewRepository(client.DB()), items, metrics.NewSaleMetrics(reg), nil,
		WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	ctx := context.Background()
	a, err := cat.CreateItem(ctx, catalog.ItemInput{Name: "Apple", Barcode: "12345678", Price: d("10"), PurchasePrice: d("6"), StockCount: d("5")})
	require.NoError(t, err)
	b, err := cat.CreateItem(ctx, catalog.ItemInput{Name: "Bread", Price: d("2.5"), PurchasePrice: d("1"), StockCount: d("10")})
	require.NoError(t, err)

	return &fixture{client: client, checkout: svc, carts: carts, catalog: cat, items: items, reg: reg, a: a, b: b}
}

func (f *fixture) add(t *testing.T, c *cart.Cart, item *catalog.ItemDTO, qty string) {
	t.Helper()
	_, err := f.carts.AddLine(context.Background(), c, cart.LineInput{ItemID: &item.ID, Quantity: d(qty)})
	require.NoError(t, err)
}

func (f *fixture) addCustom(t *testing.T, c *cart.Cart, name, price string) {
	t.Helper()
	p := d(price)
	_, err := f.carts.AddLine(context.Background(), c, cart.LineInput{Name: name, UnitPrice: &p, Quantity: d("1")})
	require.NoError(t, err)
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.client.DB().Table(table).Count(&n).Error)
	return n
}

func (f *fixture) stock(t *testing.T, id uint) decimal.Decimal {
	t.Helper()
	item, err := f.items.FindItemByID(context.Background(), id)
	require.NoError(t, err)
	return item.StockCount
}

func TestCommitPersistsSaleLinesAndStock(t *testing.T) {
	f := newFixture(t)
	c := cart.New("c1")
	f.add(t, c, f.a, "3")
	f.add(t, c, f.b, "2")

	res, err := f.checkout.Commit(context.Background(), c)
	require.NoError(t, err)
	assert.NotZero(t, res.SaleID)
	assert.Equal(t, 2, res.Lines)
	assert.Zero(t, res.DroppedCustomLines)
	assert.True(t, res.TotalPrice.Equal(d("35")), "got %s", res.TotalPrice)
	assert.True(t, res.TotalPurchasePrice.Equal(d("20")), "got %s", res.TotalPurchasePrice)
	assert.True(t, res.Datetime.Equal(fixedNow))

	assert.EqualValues(t, 1, f.count(t, "sales"))
	assert.EqualValues(t, 2, f.count(t, "sale_details"))
	assert.True(t, f.stock(t, f.a.ID).Equal(d("2")))
	assert.True(t, f.stock(t, f.b.ID).Equal(d("8")))
	assert.True(t, c.IsEmpty())

	salesSvc, err := sales.NewService(sales.NewRepository(f.client.DB()), f.items, f.client, nil)
	require.NoError(t, err)
	sale, err := salesSvc.GetSale(context.Background(), res.SaleID)
	require.NoError(t, err)
	require.Len(t, sale.Lines, 2)
	assert.Equal(t, "Apple", sale.Lines[0].ItemName)
	assert.True(t, sale.Lines[0].PriceEach.Equal(d("10")))
	assert.True(t, sale.Lines[0].PurchasePriceEach.Equal(d("6")))
	assert.True(t, sale.Lines[0].Subtotal.Equal(d("30")))

	assert.Equal(t, float64(1), f.commits(t, metrics.OutcomeCommitted))
}

func (f *fixture) commits(t *testing.T, outcome string) float64 {
	t.Helper()
	mfs, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "counterpos_sale_commits_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCommitDropsCustomLinesAndReportsThem(t *testing.T) {
	f := newFixture(t)
	c := cart.New("c1")
	f.add(t, c, f.a, "1")
	f.addCustom(t, c, "Gift wrap", "4")

	res, err := f.checkout.Commit(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Lines)
	assert.Equal(t, 1, res.DroppedCustomLines)
	assert.True(t, res.TotalPrice.Equal(d("10")), "custom line excluded from totals")
	assert.EqualValues(t, 1, f.count(t, "sale_details"))
	assert.True(t, c.IsEmpty())
}

func TestCommitRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.Commit(context.Background(), cart.New("c1"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeEmptyCart, pkgerrors.As(err).Code())
	assert.Zero(t, f.count(t, "sales"))
}

func TestCommitRejectsAllCustomCartWithoutWrites(t *testing.T) {
	f := newFixture(t)
	c := cart.New("c1")
	f.addCustom(t, c, "Service fee", "5")
	f.addCustom(t, c, "Bag", "0.5")

	_, err := f.checkout.Commit(context.Background(), c)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNoPersistableLines, pkgerrors.As(err).Code())
	assert.Zero(t, f.count(t, "sales"))
	assert.Zero(t, f.count(t, "sale_details"))
	assert.Equal(t, 2, c.Len(), "cart kept for retry")
	assert.Equal(t, float64(1), f.commits(t, metrics.OutcomeRejected))
}

func TestCommitFailureRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	c := cart.New("c1")
	f.add(t, c, f.a, "2")
	f.add(t, c, f.b, "1")

	require.NoError(t, f.catalog.DeleteItem(context.Background(), f.b.ID))

	_, err := f.checkout.Commit(context.Background(), c)
	require.Error(t, err)
	assert.NotNil(t, pkgerrors.As(err))

	assert.Zero(t, f.count(t, "sales"))
	assert.Zero(t, f.count(t, "sale_details"))
	assert.True(t, f.stock(t, f.a.ID).Equal(d("5")), "stock untouched after rollback")
	assert.Equal(t, 2, c.Len(), "cart left intact")
	assert.Equal(t, float64(1), f.commits(t, metrics.OutcomeFailed))
}

func TestCommitCanDriveStockNegative(t *testing.T) {
	f := newFixture(t)
	c := cart.New("c1")
	f.add(t, c, f.a, "4")
	f.add(t, c, f.a, "4")

	_, err := f.checkout.Commit(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, f.stock(t, f.a.ID).Equal(d("-3")))
}
