package controllers

import (
	"net/http"

	"github.com/angelmondragon/counterpos/api/responses"
	"github.com/angelmondragon/counterpos/api/validators"
	"github.com/angelmondragon/counterpos/internal/resolve"
	"github.com/angelmondragon/counterpos/pkg/logger"
)

// Resolve looks up ?q= as a barcode when it is all digits and as a name
// fragment otherwise. A miss is a 200 with found=false.
func Resolve(svc resolve.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := validators.QueryText(r, "q", maxQueryLen)
		res, err := svc.Resolve(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func Suggest(svc resolve.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fragment := validators.QueryText(r, "q", maxQueryLen)
		names, err := svc.Suggest(r.Context(), fragment, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, names)
	}
}
