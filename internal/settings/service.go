package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
)

// Service reads and writes shop settings.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	Save(ctx context.Context, input SaveInput) (*SettingsDTO, error)
}

type settingsStore interface {
	Get(ctx context.Context) (*models.Setting, error)
	Upsert(ctx context.Context, row *models.Setting) error
}

type service struct {
	repo settingsStore
}

func NewService(r settingsStore) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: r}, nil
}

func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return nil, repo.Classify(err, "load settings")
	}
	return newSettingsDTO(row), nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*SettingsDTO, error) {
	shopName := strings.TrimSpace(input.ShopName)
	currency := strings.TrimSpace(input.Currency)
	if shopName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if currency == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}

	row := &models.Setting{
		ShopName: shopName,
		Contact:  optional(input.Contact),
		Location: optional(input.Location),
		Currency: currency,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, repo.Classify(err, "save settings")
	}
	return newSettingsDTO(row), nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
