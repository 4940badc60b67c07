// Package cart holds the in-progress bill and the rules for adding lines to it.
package cart

import (
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/shopspring/decimal"
)

// Line is one bill entry. Custom lines have no ItemID and are never persisted.
type Line struct {
	ItemID    *uint
	Name      string
	Barcode   *string
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	Quantity  decimal.Decimal
	LineTotal decimal.Decimal
	Custom    bool
}

// Cost is quantity times unit cost.
func (l Line) Cost() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// Totals are derived from the lines after every mutation.
type Totals struct {
	TotalPrice         decimal.Decimal
	TotalPurchasePrice decimal.Decimal
}

// Cart is one session's working bill. It is not safe for concurrent use;
// Registry serializes access.
type Cart struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	lines  []Line
	totals Totals
}

func New(id string) *Cart {
	now := time.Now()
	return &Cart{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) Totals() Totals { return c.totals }

// Partition splits lines into catalog-backed and custom ones, keeping order.
func (c *Cart) Partition() (persistable, custom []Line) {
	for _, line := range c.lines {
		if line.Custom || line.ItemID == nil {
			custom = append(custom, line)
			continue
		}
		persistable = append(persistable, line)
	}
	return persistable, custom
}

// RemoveLine drops the line at index. An out-of-range index leaves the cart unchanged.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line index %d out of range", index)).
			WithDetails(map[string]any{"index": index, "lines": len(c.lines)})
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	c.recalc()
	return nil
}

// Clear empties the cart after a successful commit.
func (c *Cart) Clear() {
	c.lines = nil
	c.recalc()
}

func (c *Cart) append(line Line) {
	line.LineTotal = line.UnitPrice.Mul(line.Quantity)
	c.lines = append(c.lines, line)
	c.recalc()
}

func (c *Cart) recalc() {
	totals := Totals{TotalPrice: decimal.Zero, TotalPurchasePrice: decimal.Zero}
	for _, line := range c.lines {
		totals.TotalPrice = totals.TotalPrice.Add(line.LineTotal)
		totals.TotalPurchasePrice = totals.TotalPurchasePrice.Add(line.Cost())
	}
	c.totals = totals
	c.UpdatedAt = time.Now()
}

// SumLines totals an arbitrary set of lines the same way the cart does.
func SumLines(lines []Line) Totals {
	totals := Totals{TotalPrice: decimal.Zero, TotalPurchasePrice: decimal.Zero}
	for _, line := range lines {
		totals.TotalPrice = totals.TotalPrice.Add(line.UnitPrice.Mul(line.Quantity))
		totals.TotalPurchasePrice = totals.TotalPurchasePrice.Add(line.Cost())
	}
	return totals
}
