package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	handler := NewRouter(Deps{
		Config: &config.Config{},
		Logger: logg,
	})
	mux, ok := handler.(chi.Router)
	require.True(t, ok)
	return mux
}

func TestRouterExposesExpectedRoutes(t *testing.T) {
	mux := testRouter(t)

	registered := map[string]bool{}
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"POST /auth/signup",
		"POST /auth/login",
		"POST /auth/logout",
		"GET /auth/refresh_token",
		"GET /auth/confirmed_email/{token}",
		"POST /auth/request_email",
		"GET /auth/reset_password/{email}",
		"POST /auth/reset_password/confirmed/{token}",

		"GET /product/all",
		"GET /product/all_for_crm",
		"GET /product/search",
		"GET /product/{id}",
		"POST /product/create",
		"PUT /product/archive",
		"PUT /product/unarchive",

		"GET /product_category/all",
		"POST /product_category/create",
		"POST /product_subcategory/create",

		"GET /price/product",
		"POST /price/create",
		"PUT /price/archive",
		"PUT /price/unarchive",
		"POST /price/total_price",

		"GET /basket_items",
		"POST /basket_items/add",
		"PATCH /basket_items/change_quantity",
		"DELETE /basket_items/remove",

		"GET /basket_anon_user",
		"POST /basket_anon_user/add_items",
		"PATCH /basket_anon_user/change_quantity",
		"DELETE /basket_anon_user/remove_product",

		"GET /orders/all_for_crm",
		"GET /orders/{id}/for_crm",
		"GET /orders/for_current_user",
		"GET /orders/{id}/for_current_user",
		"POST /orders/create_for_auth_user",
		"POST /orders/create_order_number_anon_user",
		"POST /orders/add_items_to_order_anon_user",
		"POST /orders/create_order_anonym_user",
		"PUT /orders/confirm_payment_of_order",
		"PUT /orders/{id}/update_status",
		"PUT /orders/{id}/add_comment",

		"GET /nova_poshta",
		"POST /nova_poshta/create_warehouse",
		"POST /nova_poshta/create_address_delivery",
		"PATCH /nova_poshta/{id}/partial-update",

		"GET /users/current_user",
		"GET /users/all_for_crm",
	}
	for _, route := range expected {
		require.True(t, registered[route], "missing route %s", route)
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	mux := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/definitely_not_here", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
