// Package resolve maps a scanned code or typed name fragment to a catalog item.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/barcode"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/models"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// Service resolves tokens against the catalog. A miss is not an error: the
// caller decides whether to offer an ad-hoc line.
type Service interface {
	Resolve(ctx context.Context, token string) (*Resolution, error)
	ResolveBarcode(ctx context.Context, code string) (*models.Item, error)
	ResolveName(ctx context.Context, query string) (*models.Item, error)
	Suggest(ctx context.Context, fragment string, limit int) ([]string, error)
}

type itemFinder interface {
	FindItemByBarcode(ctx context.Context, code string) (*models.Item, error)
	FindFirstByName(ctx context.Context, query string) (*models.Item, error)
	SuggestNames(ctx context.Context, fragment string, limit int) ([]string, error)
}

// Resolution is the outcome of resolving one token.
type Resolution struct {
	Token        string           `json:"token"`
	Kind         string           `json:"kind"`
	BarcodeValid bool             `json:"barcode_valid"`
	Found        bool             `json:"found"`
	Item         *catalog.ItemDTO `json:"item,omitempty"`
}

const (
	KindBarcode = "barcode"
	KindName    = "name"
)

type service struct {
	items itemFinder
}

func NewService(items itemFinder) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item finder required")
	}
	return &service{items: items}, nil
}

// Resolve routes a digits-only token to the barcode lookup and anything else
// to the name lookup. Digit strings of an invalid length are still looked up
// and simply miss.
func (s *service) Resolve(ctx context.Context, token string) (*Resolution, error) {
	token = strings.TrimSpace(token)
	res := &Resolution{Token: token}
	if token == "" {
		return res, nil
	}

	var (
		item *models.Item
		err  error
	)
	if barcode.IsDigits(token) {
		res.Kind = KindBarcode
		res.BarcodeValid = barcode.Valid(token)
		item, err = s.ResolveBarcode(ctx, token)
	} else {
		res.Kind = KindName
		item, err = s.ResolveName(ctx, token)
	}
	if err != nil {
		return nil, err
	}
	if item != nil {
		dto := catalog.NewItemDTO(*item, nil)
		res.Found = true
		res.Item = &dto
	}
	return res, nil
}

func (s *service) ResolveBarcode(ctx context.Context, code string) (*models.Item, error) {
	code = barcode.Normalize(code)
	if code == "" {
		return nil, nil
	}
	return s.found(s.items.FindItemByBarcode(ctx, code))
}

// ResolveName returns the alphabetically first item whose name contains query.
// Ties are broken silently.
func (s *service) ResolveName(ctx context.Context, query string) (*models.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.found(s.items.FindFirstByName(ctx, query))
}

func (s *service) Suggest(ctx context.Context, fragment string, limit int) ([]string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}
	names, err := s.items.SuggestNames(ctx, fragment, limit)
	if err != nil {
		return nil, repo.Classify(err, "suggest names")
	}
	return names, nil
}

func (s *service) found(item *models.Item, err error) (*models.Item, error) {
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, repo.Classify(err, "resolve item")
	}
	return item, nil
}
