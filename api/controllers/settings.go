package controllers

import (
	"net/http"

	"github.com/angelmondragon/counterpos/api/responses"
	"github.com/angelmondragon/counterpos/api/validators"
	"github.com/angelmondragon/counterpos/internal/settings"
	"github.com/angelmondragon/counterpos/pkg/logger"
)

type saveSettingsRequest struct {
	ShopName string `json:"shop_name" validate:"required,max=120"`
	Contact  string `json:"contact,omitempty" validate:"max=120"`
	Location string `json:"location,omitempty" validate:"max=200"`
	Currency string `json:"currency" validate:"required,max=12"`
}

func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

func SettingsSave(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload saveSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cfg, err := svc.Save(r.Context(), settings.SaveInput{
			ShopName: payload.ShopName,
			Contact:  payload.Contact,
			Location: payload.Location,
			Currency: payload.Currency,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}
