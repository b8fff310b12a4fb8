package novaposhta

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

func nopLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func testClient(t *testing.T, srv *httptest.Server, pageSize int) *Client {
	t.Helper()
	logg := nopLogger()
	return &Client{
		httpClient: srv.Client(),
		apiURL:     srv.URL,
		apiKey:     "test-key",
		pageSize:   pageSize,
		logger:     logg,
	}
}

func TestGetWarehousesParsesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req apiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.CalledMethod != "getWarehouses" || req.ModelName != "Address" {
			t.Fatalf("unexpected request method %s/%s", req.ModelName, req.CalledMethod)
		}
		if req.APIKey != "test-key" {
			t.Fatalf("api key not forwarded")
		}
		_ = json.NewEncoder(w).Encode(apiResponse{
			Success: true,
			Data: []warehousePayload{
				{
					Description:                  "Відділення №1: вул. Пирогівський шлях, 135",
					CityDescription:              "Київ",
					CategoryOfWarehouse:          "Branch",
					SettlementAreaDescription:    "Київська",
					SettlementRegionsDescription: "Голосіївський",
				},
			},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv, 500)
	got, err := c.GetWarehouses(context.Background(), "Київ", 1)
	if err != nil {
		t.Fatalf("GetWarehouses returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 warehouse, got %d", len(got))
	}
	w := got[0]
	if w.City != "Київ" || w.Address != "Відділення №1: вул. Пирогівський шлях, 135" {
		t.Fatalf("unexpected warehouse %+v", w)
	}
	if w.Category != "Branch" || w.Area != "Київська" || w.Region != "Голосіївський" {
		t.Fatalf("unexpected warehouse metadata %+v", w)
	}
}

func TestGetWarehousesMapsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(apiResponse{Success: false, Errors: []string{"API key incorrect"}})
	}))
	defer srv.Close()

	c := testClient(t, srv, 500)
	_, err := c.GetWarehouses(context.Background(), "Київ", 1)
	if err == nil {
		t.Fatal("expected error for unsuccessful response")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetAllWarehousesWalksPages(t *testing.T) {
	pages := [][]warehousePayload{
		{
			{Description: "Відділення №1", CityDescription: "Львів"},
			{Description: "Відділення №2", CityDescription: "Львів"},
		},
		{
			{Description: "Відділення №3", CityDescription: "Львів"},
		},
	}
	var requested []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req apiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		page := int(req.MethodProperties["Page"].(float64))
		requested = append(requested, page)
		var data []warehousePayload
		if page <= len(pages) {
			data = pages[page-1]
		}
		_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
	}))
	defer srv.Close()

	c := testClient(t, srv, 2)
	got, err := c.GetAllWarehouses(context.Background(), "Львів")
	if err != nil {
		t.Fatalf("GetAllWarehouses returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 warehouses, got %d", len(got))
	}
	if len(requested) != 2 || requested[0] != 1 || requested[1] != 2 {
		t.Fatalf("unexpected page sequence %v", requested)
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	cfg := config.NovaPoshtaConfig{APIURL: "https://api.example.test/json/"}
	if _, err := NewClient(context.Background(), cfg, nopLogger()); err == nil {
		t.Fatal("expected error for missing api key")
	}
	cfg.APIKey = "key"
	if _, err := NewClient(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for missing logger")
	}
}
