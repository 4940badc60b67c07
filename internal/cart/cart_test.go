package cart

import (
	"sync"
	"testing"

	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func uintPtr(v uint) *uint { return &v }

func TestTotalsAreRecomputedFromLines(t *testing.T) {
	c := New("c1")
	c.append(Line{ItemID: uintPtr(1), Name: "A", UnitPrice: d("10"), UnitCost: d("6"), Quantity: d("2")})
	c.append(Line{Name: "B", UnitPrice: d("2.5"), UnitCost: d("2.5"), Quantity: d("1.5"), Custom: true})

	totals := c.Totals()
	assert.True(t, totals.TotalPrice.Equal(d("23.75")), "got %s", totals.TotalPrice)
	assert.True(t, totals.TotalPurchasePrice.Equal(d("15.75")), "got %s", totals.TotalPurchasePrice)

	var sum decimal.Decimal
	for _, line := range c.Lines() {
		sum = sum.Add(line.UnitPrice.Mul(line.Quantity))
	}
	assert.True(t, sum.Equal(totals.TotalPrice))
	assert.True(t, SumLines(c.Lines()).TotalPrice.Equal(totals.TotalPrice))

	require.NoError(t, c.RemoveLine(0))
	assert.True(t, c.Totals().TotalPrice.Equal(d("3.75")))
	assert.Equal(t, 1, c.Len())
}

func TestRemoveLineOutOfRangeLeavesCartUnchanged(t *testing.T) {
	c := New("c1")
	c.append(Line{Name: "A", UnitPrice: d("1"), Quantity: d("1"), Custom: true})

	for _, idx := range []int{-1, 1, 5} {
		err := c.RemoveLine(idx)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Totals().TotalPrice.Equal(d("1")))
}

func TestPartitionAndClear(t *testing.T) {
	c := New("c1")
	c.append(Line{ItemID: uintPtr(1), Name: "A", UnitPrice: d("1"), Quantity: d("1")})
	c.append(Line{Name: "Custom", UnitPrice: d("1"), Quantity: d("1"), Custom: true})
	c.append(Line{ItemID: uintPtr(2), Name: "B", UnitPrice: d("1"), Quantity: d("1")})

	persistable, custom := c.Partition()
	require.Len(t, persistable, 2)
	require.Len(t, custom, 1)
	assert.Equal(t, "A", persistable[0].Name)
	assert.Equal(t, "B", persistable[1].Name)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Totals().TotalPrice.IsZero())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New("c1")
	c.append(Line{Name: "A", UnitPrice: d("1"), Quantity: d("1"), Custom: true})
	lines := c.Lines()
	lines[0].Name = "mutated"
	assert.Equal(t, "A", c.Lines()[0].Name)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	id := reg.Create()
	assert.Equal(t, 1, reg.Len())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.Do(id, func(c *Cart) error {
				c.append(Line{Name: "x", UnitPrice: d("1"), Quantity: d("1"), Custom: true})
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, reg.Do(id, func(c *Cart) error {
		assert.Equal(t, 20, c.Len())
		assert.True(t, c.Totals().TotalPrice.Equal(d("20")))
		return nil
	}))

	require.NoError(t, reg.Delete(id))
	err := reg.Do(id, func(*Cart) error { return nil })
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Error(t, reg.Delete(id))
}

func TestNewCartDTO(t *testing.T) {
	c := New("c1")
	c.append(Line{ItemID: uintPtr(1), Name: "A", UnitPrice: d("10.5"), Quantity: d("2")})
	c.append(Line{Name: "B", UnitPrice: d("3"), Quantity: d("1"), Custom: true})

	dto := NewCartDTO(c)
	require.Len(t, dto.Lines, 2)
	assert.Equal(t, "24", dto.TotalText)
	assert.Equal(t, "21", dto.Lines[0].LineTotalText)
	assert.Equal(t, "2", dto.Lines[0].QuantityText)
	assert.Equal(t, 1, dto.CustomLines)
	assert.Equal(t, 1, dto.Lines[1].Index)
}
