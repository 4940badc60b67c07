package receipts

import (
	"context"
	"errors"

	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/pkg/db/models"
)

// stubItems satisfies the cart service dependencies for custom-only carts.
type stubItems struct{}

func (*stubItems) FindItemByID(context.Context, uint) (*models.Item, error) {
	return nil, errors.New("not used")
}

func (*stubItems) CreateItem(context.Context, catalog.ItemInput) (*catalog.ItemDTO, error) {
	return nil, errors.New("not used")
}

func (*stubItems) FindCategoryByName(context.Context, string) (*catalog.CategoryDTO, error) {
	return nil, errors.New("not used")
}
