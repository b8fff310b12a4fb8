package controllers

import (
	"net/http"

	"github.com/sushka2023/sushka-shop-backend/api/responses"
	"github.com/sushka2023/sushka-shop-backend/api/validators"
	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

// CategoriesAll lists categories; CRM callers may include archived ones.
func CategoriesAll(svc catalog.Service, includeDeleted bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context(), includeDeleted)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type createCategoryRequest struct {
	Name       string `json:"name" validate:"required"`
	CategoryID uint   `json:"category_id"`
}

// CategoryCreate adds a product category.
func CategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// CategoryArchive soft-deletes a category.
func CategoryArchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.ArchiveCategory, logg)
}

// CategoryUnarchive restores an archived category.
func CategoryUnarchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.UnarchiveCategory, logg)
}

// SubcategoryCreate adds a subcategory under an existing category.
func SubcategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		subcategory, err := svc.CreateSubcategory(r.Context(), payload.CategoryID, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, subcategory)
	}
}

// SubcategoryArchive soft-deletes a subcategory.
func SubcategoryArchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.ArchiveSubcategory, logg)
}

// SubcategoryUnarchive restores an archived subcategory.
func SubcategoryUnarchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return productStatusHandler(svc.UnarchiveSubcategory, logg)
}
