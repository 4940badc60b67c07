package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/counterpos/api/responses"
	"github.com/angelmondragon/counterpos/api/validators"
	"github.com/angelmondragon/counterpos/internal/cart"
	"github.com/angelmondragon/counterpos/internal/checkout"
	"github.com/angelmondragon/counterpos/internal/receipts"
	"github.com/angelmondragon/counterpos/internal/resolve"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/logger"
)

const cartIDParam = "cartId"

type addLineRequest struct {
	ItemID    *uint            `json:"item_id,omitempty"`
	Name      string           `json:"name,omitempty" validate:"max=200"`
	Barcode   string           `json:"barcode,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Quantity  decimal.Decimal  `json:"quantity"`
}

type newItemRequest struct {
	Name      string          `json:"name" validate:"max=200"`
	Barcode   string          `json:"barcode,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type scanRequest struct {
	Token    string           `json:"token" validate:"required,max=200"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}

type scanResponse struct {
	Resolution *resolve.Resolution `json:"resolution"`
	Cart       *cart.CartDTO       `json:"cart"`
}

type commitResponse struct {
	Sale *checkout.Result `json:"sale"`
	Cart cart.CartDTO     `json:"cart"`
}

func cartID(r *http.Request) (string, error) {
	id := validators.SanitizeString(chi.URLParam(r, cartIDParam), 64)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return id, nil
}

// snapshot reads the cart through the registry lock.
func snapshot(carts *cart.Registry, id string) (cart.CartDTO, error) {
	var dto cart.CartDTO
	err := carts.Do(id, func(c *cart.Cart) error {
		dto = cart.NewCartDTO(c)
		return nil
	})
	return dto, err
}

func CartCreate(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := carts.Create()
		if logg != nil {
			logg.Debug(logg.WithCartID(r.Context(), id), "cart opened")
		}
		dto, err := snapshot(carts, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func CartGet(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := snapshot(carts, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CartDelete cancels the bill. Nothing was persisted, so nothing is undone.
func CartDelete(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := carts.Delete(id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func CartAddLine(carts *cart.Registry, svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto cart.CartDTO
		err = carts.Do(id, func(c *cart.Cart) error {
			if _, err := svc.AddLine(r.Context(), c, cart.LineInput{
				ItemID:    payload.ItemID,
				Name:      payload.Name,
				Barcode:   payload.Barcode,
				UnitPrice: payload.UnitPrice,
				Quantity:  payload.Quantity,
			}); err != nil {
				return err
			}
			dto = cart.NewCartDTO(c)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// CartScan resolves a scanned or typed token and bills the match. A miss
// leaves the cart alone and returns the resolution so the cashier can add an
// ad-hoc line or save a new item.
func CartScan(carts *cart.Registry, svc cart.Service, resolver resolve.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload scanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty := decimal.NewFromInt(1)
		if payload.Quantity != nil {
			qty = *payload.Quantity
		}

		res, err := resolver.Resolve(r.Context(), payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto cart.CartDTO
		err = carts.Do(id, func(c *cart.Cart) error {
			if res.Found {
				itemID := res.Item.ID
				if _, err := svc.AddLine(r.Context(), c, cart.LineInput{ItemID: &itemID, Quantity: qty}); err != nil {
					return err
				}
			}
			dto = cart.NewCartDTO(c)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, scanResponse{Resolution: res, Cart: &dto})
	}
}

func CartAddNewItem(carts *cart.Registry, svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload newItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto cart.CartDTO
		err = carts.Do(id, func(c *cart.Cart) error {
			if _, err := svc.AddNewItem(r.Context(), c, cart.NewItemInput{
				Name:      payload.Name,
				Barcode:   payload.Barcode,
				UnitPrice: payload.UnitPrice,
				Quantity:  payload.Quantity,
			}); err != nil {
				return err
			}
			dto = cart.NewCartDTO(c)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func CartRemoveLine(carts *cart.Registry, svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		index, err := validators.ParseIndexParam(r, "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto cart.CartDTO
		err = carts.Do(id, func(c *cart.Cart) error {
			if err := svc.RemoveLine(r.Context(), c, index); err != nil {
				return err
			}
			dto = cart.NewCartDTO(c)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CartCommit persists the bill as a sale. The cart stays open and empty.
func CartCommit(carts *cart.Registry, svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var out commitResponse
		err = carts.Do(id, func(c *cart.Cart) error {
			result, err := svc.Commit(r.Context(), c)
			if err != nil {
				return err
			}
			out = commitResponse{Sale: result, Cart: cart.NewCartDTO(c)}
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

func CartReceipt(carts *cart.Registry, svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var receipt *receipts.Receipt
		err = carts.Do(id, func(c *cart.Cart) error {
			var buildErr error
			receipt, buildErr = svc.ForCart(r.Context(), c)
			return buildErr
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
