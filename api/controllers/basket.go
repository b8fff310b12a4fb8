package controllers

import (
	"net/http"

	"github.com/sushka2023/sushka-shop-backend/api/middleware"
	"github.com/sushka2023/sushka-shop-backend/api/responses"
	"github.com/sushka2023/sushka-shop-backend/api/validators"
	"github.com/sushka2023/sushka-shop-backend/internal/basket"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

type basketItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	PriceID   uint `json:"price_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

// BasketItems returns the authenticated user's basket with line totals.
func BasketItems(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// BasketAdd puts a product variant into the basket, merging quantities.
func BasketAdd(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload basketItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}
		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.AddItem(r.Context(), userID, payload.ProductID, payload.PriceID, quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "added"})
	}
}

// BasketChangeQuantity replaces the quantity of an existing basket line.
func BasketChangeQuantity(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload basketItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.SetQuantity(r.Context(), userID, payload.ProductID, payload.PriceID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// BasketRemove drops a line from the basket.
func BasketRemove(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload basketItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.RemoveItem(r.Context(), userID, payload.ProductID, payload.PriceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
