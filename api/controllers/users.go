package controllers

import (
	"net/http"

	"github.com/sushka2023/sushka-shop-backend/api/middleware"
	"github.com/sushka2023/sushka-shop-backend/api/responses"
	"github.com/sushka2023/sushka-shop-backend/api/validators"
	"github.com/sushka2023/sushka-shop-backend/internal/users"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

// UsersAllForCRM lists registered accounts for operators.
func UsersAllForCRM(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page = page.Normalize()
		list, total, err := repo.List(r.Context(), page.Limit, page.Offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dtos := make([]users.UserDTO, 0, len(list))
		for i := range list {
			dtos = append(dtos, users.FromModel(&list[i]))
		}
		responses.WriteSuccess(w, pagination.NewPage(dtos, total, page))
	}
}

// CurrentUser returns the authenticated account's own profile.
func CurrentUser(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := repo.FindByID(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, users.FromModel(user))
	}
}

type updateProfileRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	PhoneNumber *string `json:"phone_number"`
}

// CurrentUserUpdate changes the caller's name and phone number.
func CurrentUserUpdate(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID := middleware.UserIDFromContext(r.Context())
		if err := repo.UpdatePersonalInfo(r.Context(), userID, payload.FirstName, payload.LastName, payload.PhoneNumber); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, users.FromModel(user))
	}
}
