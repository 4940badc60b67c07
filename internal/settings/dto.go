package settings

import "github.com/angelmondragon/counterpos/pkg/db/models"

// SaveInput is the full settings payload; blank contact/location clear the field.
type SaveInput struct {
	ShopName string
	Contact  string
	Location string
	Currency string
}

type SettingsDTO struct {
	ShopName string `json:"shop_name"`
	Contact  string `json:"contact,omitempty"`
	Location string `json:"location,omitempty"`
	Currency string `json:"currency"`
}

func newSettingsDTO(row *models.Setting) *SettingsDTO {
	dto := &SettingsDTO{ShopName: row.ShopName, Currency: row.Currency}
	if row.Contact != nil {
		dto.Contact = *row.Contact
	}
	if row.Location != nil {
		dto.Location = *row.Location
	}
	return dto
}
