package reports

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/sales"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/dbtest"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(sales.NewRepository(client.DB()), catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, client
}

func insertSale(t *testing.T, client *db.Client, at time.Time, total, cost string) models.Sale {
	t.Helper()
	sale := models.Sale{Datetime: at.UTC(), TotalPrice: d(total), TotalPurchasePrice: d(cost)}
	require.NoError(t, client.DB().Omit("Details").Create(&sale).Error)
	return sale
}

func TestSummarySplitsToday(t *testing.T) {
	svc, client := newService(t)
	now := time.Now()
	insertSale(t, client, now, "100", "60")
	insertSale(t, client, now.AddDate(0, 0, -2), "50.5", "20")

	sum, err := svc.Summary(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.AllTime.Sales)
	assert.True(t, d("150.5").Equal(sum.AllTime.Revenue))
	assert.True(t, d("70.5").Equal(sum.AllTime.Profit))
	assert.Equal(t, "150.50", sum.AllTime.RevenueText)

	assert.Equal(t, 1, sum.Today.Sales)
	assert.True(t, d("100").Equal(sum.Today.Revenue))
	assert.True(t, d("40").Equal(sum.Today.Profit))
}

func TestSummaryEmptyLedger(t *testing.T) {
	svc, _ := newService(t)
	sum, err := svc.Summary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, sum.AllTime.Sales)
	assert.True(t, sum.Today.Revenue.IsZero())
	assert.Equal(t, "0", sum.AllTime.RevenueText)
}

func TestLatestSale(t *testing.T) {
	svc, client := newService(t)

	_, err := svc.LatestSale(context.Background())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	insertSale(t, client, time.Now().Add(-time.Hour), "10", "5")
	latest := insertSale(t, client, time.Now(), "20", "5")

	got, err := svc.LatestSale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, latest.ID, got.ID)
	assert.True(t, d("15").Equal(got.Profit))
}

func TestStockValuationGroupsAndClamps(t *testing.T) {
	svc, client := newService(t)
	drinks := models.Category{Name: "Drinks"}
	require.NoError(t, client.DB().Create(&drinks).Error)

	items := []models.Item{
		{Name: "Cola", CategoryID: &drinks.ID, Price: d("3"), PurchasePrice: d("2"), StockCount: d("10")},
		{Name: "Juice", CategoryID: &drinks.ID, Price: d("4"), PurchasePrice: d("2.5"), StockCount: d("-3")},
		{Name: "Nails", Price: d("1"), PurchasePrice: d("0.25"), StockCount: d("1.5")},
	}
	for i := range items {
		require.NoError(t, client.DB().Create(&items[i]).Error)
	}

	val, err := svc.StockValuation(context.Background())
	require.NoError(t, err)
	require.Len(t, val.Categories, 2)

	assert.Equal(t, "Drinks", val.Categories[0].Category)
	assert.True(t, d("20").Equal(val.Categories[0].Subtotal))
	require.Len(t, val.Categories[0].Items, 2)
	assert.True(t, val.Categories[0].Items[1].Quantity.IsZero())

	assert.Equal(t, models.DefaultCategoryName, val.Categories[1].Category)
	assert.True(t, d("0.375").Equal(val.Categories[1].Subtotal))

	assert.True(t, d("20.375").Equal(val.GrandTotal))
	assert.Equal(t, "20.38", val.GrandTotalText)
}
