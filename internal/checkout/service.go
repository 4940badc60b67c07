// Package checkout turns a finished cart into a persisted sale.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/counterpos/internal/cart"
	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/internal/sales"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/logger"
	"github.com/angelmondragon/counterpos/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service commits carts.
type Service interface {
	Commit(ctx context.Context, c *cart.Cart) (*Result, error)
}

// Result describes a committed sale. DroppedCustomLines counts the custom
// lines that were on the bill but are not part of the persisted sale.
type Result struct {
	SaleID             uint            `json:"sale_id"`
	Lines              int             `json:"lines"`
	DroppedCustomLines int             `json:"dropped_custom_lines"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	TotalPurchasePrice decimal.Decimal `json:"total_purchase_price"`
	Datetime           time.Time       `json:"datetime"`
}

type Option func(*service)

// WithClock overrides the sale timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	dbClient *db.Client
	sales    *sales.Repository
	items    *catalog.Repository
	metrics  *metrics.SaleMetrics
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(dbClient *db.Client, salesRepo *sales.Repository, items *catalog.Repository, m *metrics.SaleMetrics, logg *logger.Logger, opts ...Option) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	s := &service{
		dbClient: dbClient,
		sales:    salesRepo,
		items:    items,
		metrics:  m,
		logg:     logg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Commit writes one sale with a line per catalog-backed cart line and
// decrements stock, all in one transaction. Custom lines are left out without
// asking; the result reports how many. The cart is cleared only on success.
func (s *service) Commit(ctx context.Context, c *cart.Cart) (*Result, error) {
	start := time.Now()
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	ctx = s.logg.WithCartID(ctx, c.ID)

	if c.IsEmpty() {
		s.metrics.ObserveCommit(metrics.OutcomeRejected, time.Since(start))
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	persistable, custom := c.Partition()
	if len(persistable) == 0 {
		s.metrics.ObserveCommit(metrics.OutcomeRejected, time.Since(start))
		return nil, pkgerrors.New(pkgerrors.CodeNoPersistableLines, "cart has only custom lines").
			WithDetails(map[string]any{"custom_lines": len(custom)})
	}

	totals := cart.SumLines(persistable)
	sale := &models.Sale{
		Datetime:           s.now().UTC(),
		TotalPrice:         totals.TotalPrice,
		TotalPurchasePrice: totals.TotalPurchasePrice,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txSales := s.sales.WithTx(tx)
		txItems := s.items.WithTx(tx)

		if err := txSales.CreateSale(ctx, sale); err != nil {
			return repo.Classify(err, "insert sale")
		}
		for _, line := range persistable {
			detail := &models.SaleDetail{
				SaleID:            sale.ID,
				ItemID:            *line.ItemID,
				Quantity:          line.Quantity,
				PriceEach:         line.UnitPrice,
				PurchasePriceEach: line.UnitCost,
				Subtotal:          line.Quantity.Mul(line.UnitPrice),
			}
			if err := txSales.CreateDetail(ctx, detail); err != nil {
				return repo.Classify(err, "insert sale line")
			}
			if _, err := txItems.AdjustStock(ctx, detail.ItemID, line.Quantity.Neg()); err != nil {
				return repo.Classify(err, "decrement stock")
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveCommit(metrics.OutcomeFailed, time.Since(start))
		s.logg.Error(ctx, "sale commit failed", err)
		return nil, err
	}

	c.Clear()
	s.metrics.ObserveCommit(metrics.OutcomeCommitted, time.Since(start))
	s.metrics.AddLines(len(persistable), len(custom))

	logCtx := s.logg.WithSaleID(ctx, sale.ID)
	if len(custom) > 0 {
		s.logg.Warn(s.logg.WithField(logCtx, "dropped_custom_lines", len(custom)), "custom lines left out of committed sale")
	}
	s.logg.Info(s.logg.WithField(logCtx, "lines", len(persistable)), "sale committed")

	return &Result{
		SaleID:             sale.ID,
		Lines:              len(persistable),
		DroppedCustomLines: len(custom),
		TotalPrice:         sale.TotalPrice,
		TotalPurchasePrice: sale.TotalPurchasePrice,
		Datetime:           sale.Datetime,
	}, nil
}
