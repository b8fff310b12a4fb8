package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sushka2023/sushka-shop-backend/api/responses"
	"github.com/sushka2023/sushka-shop-backend/api/validators"
	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

func storefrontListParams(r *http.Request) (catalog.ListParams, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return catalog.ListParams{}, err
	}
	sort, err := catalog.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		return catalog.ListParams{}, err
	}
	categoryID, err := validators.ParseQueryUint(r, "category_id")
	if err != nil {
		return catalog.ListParams{}, err
	}
	subcategoryIDs, err := validators.ParseQueryUintList(r, "subcategory_id")
	if err != nil {
		return catalog.ListParams{}, err
	}

	var weights []string
	for _, raw := range r.URL.Query()["weight"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				weights = append(weights, part)
			}
		}
	}

	params := catalog.ListParams{
		SubcategoryIDs: subcategoryIDs,
		Weights:        weights,
		Sort:           sort,
		Search:         strings.TrimSpace(r.URL.Query().Get("search")),
		Page:           page,
	}
	if categoryID != 0 {
		params.CategoryID = &categoryID
	}
	return params, nil
}

// ProductsAll lists storefront-visible products.
func ProductsAll(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := storefrontListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListStorefront(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductsSearch is the storefront name search.
func ProductsSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := storefrontListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.Search == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "search query is required"))
			return
		}
		page, err := svc.ListStorefront(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductsAllForCRM lists products without visibility filtering.
func ProductsAllForCRM(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sort, err := catalog.ParseSortKey(r.URL.Query().Get("sort"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUint(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := catalog.CRMListParams{Sort: sort, Page: page}
		if categoryID != 0 {
			params.CategoryID = &categoryID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProductStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status"))
				return
			}
			params.Status = &status
		}

		result, err := svc.ListCRM(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductByID returns one product with its variants and images.
func ProductByID(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	CategoryID     uint   `json:"category_id" validate:"required"`
	SubcategoryIDs []uint `json:"subcategory_ids"`
	IsNew          bool   `json:"is_new"`
	IsPopular      bool   `json:"is_popular"`
}

// ProductCreate adds a product in status new.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductDTO{
			Name:           payload.Name,
			Description:    payload.Description,
			CategoryID:     payload.CategoryID,
			SubcategoryIDs: payload.SubcategoryIDs,
			IsNew:          payload.IsNew,
			IsPopular:      payload.IsPopular,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type idRequest struct {
	ID uint `json:"id" validate:"required"`
}

// ProductArchive moves a product into the archived status.
func ProductArchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.ArchiveProduct, logg)
}

// ProductUnarchive reactivates an archived product.
func ProductUnarchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.UnarchiveProduct, logg)
}

func productStatusHandler(op func(ctx context.Context, id uint) error, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload idRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := op(r.Context(), payload.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]uint{"id": payload.ID})
	}
}
