package settings

import (
	"context"

	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the singleton settings row.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Get loads the settings row; gorm.ErrRecordNotFound when first-run setup never happened.
func (r *Repository) Get(ctx context.Context) (*models.Setting, error) {
	var row models.Setting
	if err := r.DB(ctx).Where("id = ?", models.SettingsRowID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes the singleton row.
func (r *Repository) Upsert(ctx context.Context, row *models.Setting) error {
	row.ID = models.SettingsRowID
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"shop_name", "contact", "location", "currency"}),
	}).Create(row).Error
}
