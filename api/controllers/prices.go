package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sushka2023/sushka-shop-backend/api/responses"
	"github.com/sushka2023/sushka-shop-backend/api/validators"
	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

// PricesByProduct lists the weight variants of one product.
func PricesByProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseQueryUint(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if productID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required"))
			return
		}
		prices, err := svc.ListPrices(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prices)
	}
}

type createPriceRequest struct {
	ProductID   uint             `json:"product_id" validate:"required"`
	Weight      string           `json:"weight" validate:"required"`
	Price       decimal.Decimal  `json:"price" validate:"required"`
	OldPrice    *decimal.Decimal `json:"old_price"`
	Quantity    int              `json:"quantity" validate:"gte=0"`
	Promotional bool             `json:"promotional"`
}

// PriceCreate adds a new weight variant to a product.
func PriceCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := svc.CreatePrice(r.Context(), catalog.CreatePriceDTO{
			ProductID:   payload.ProductID,
			Weight:      payload.Weight,
			Price:       payload.Price,
			OldPrice:    payload.OldPrice,
			Quantity:    payload.Quantity,
			Promotional: payload.Promotional,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, price)
	}
}

// PriceArchive hides a price variant from the storefront.
func PriceArchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.ArchivePrice, logg)
}

// PriceUnarchive restores an archived price variant.
func PriceUnarchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.UnarchivePrice, logg)
}

type totalPriceRequest struct {
	Items []catalog.TotalPriceItem `json:"items" validate:"required,min=1,dive"`
}

// PriceTotal computes the sum for a prospective order without persisting anything.
func PriceTotal(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload totalPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, err := svc.TotalPrice(r.Context(), payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]decimal.Decimal{"total_price": total})
	}
}
