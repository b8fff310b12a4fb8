package novaposhta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

const (
	modelAddress         = "Address"
	methodGetWarehouses  = "getWarehouses"
	defaultFetchPageSize = 500
)

var (
	errAPIKeyRequired = errors.New("nova poshta api key is required")
	errAPIURLRequired = errors.New("nova poshta api url is required")
	errLoggerRequired = errors.New("nova poshta logger is required")
)

// Warehouse is one branch entry of the carrier directory.
type Warehouse struct {
	City     string
	Address  string
	Category string
	Area     string
	Region   string
}

// Client wraps the Nova Poshta JSON API with centralized auth, logging, and
// error mapping.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	pageSize   int
	logger     *logger.Logger
}

// NewClient initializes the Nova Poshta wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.NovaPoshtaConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		return nil, errAPIURLRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultFetchPageSize
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
		pageSize:   pageSize,
		logger:     logg,
	}

	logg.Info(ctx, "nova poshta client initialized")
	return c, nil
}

type apiRequest struct {
	APIKey           string         `json:"apiKey"`
	ModelName        string         `json:"modelName"`
	CalledMethod     string         `json:"calledMethod"`
	MethodProperties map[string]any `json:"methodProperties"`
}

type warehousePayload struct {
	Description                  string `json:"Description"`
	CityDescription              string `json:"CityDescription"`
	CategoryOfWarehouse          string `json:"CategoryOfWarehouse"`
	SettlementAreaDescription    string `json:"SettlementAreaDescription"`
	SettlementRegionsDescription string `json:"SettlementRegionsDescription"`
}

type apiResponse struct {
	Success bool               `json:"success"`
	Data    []warehousePayload `json:"data"`
	Errors  []string           `json:"errors"`
}

// GetWarehouses fetches one page of branches for the given city. Pages are
// 1-based; an empty result marks the end of the directory.
func (c *Client) GetWarehouses(ctx context.Context, city string, page int) ([]Warehouse, error) {
	if page < 1 {
		page = 1
	}

	req := apiRequest{
		APIKey:       c.apiKey,
		ModelName:    modelAddress,
		CalledMethod: methodGetWarehouses,
		MethodProperties: map[string]any{
			"CityName": city,
			"Page":     page,
			"Limit":    c.pageSize,
		},
	}

	c.log(ctx, "request", methodGetWarehouses, map[string]any{"city": city, "page": page})

	resp, err := c.post(ctx, req)
	if err != nil {
		c.log(ctx, "error", methodGetWarehouses, map[string]any{"error": err.Error()})
		return nil, err
	}

	if !resp.Success {
		err := fmt.Errorf("nova poshta rejected %s: %s", methodGetWarehouses, strings.Join(resp.Errors, "; "))
		c.log(ctx, "error", methodGetWarehouses, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "nova poshta getWarehouses failed")
	}

	warehouses := make([]Warehouse, 0, len(resp.Data))
	for _, item := range resp.Data {
		warehouses = append(warehouses, Warehouse{
			City:     item.CityDescription,
			Address:  item.Description,
			Category: item.CategoryOfWarehouse,
			Area:     item.SettlementAreaDescription,
			Region:   item.SettlementRegionsDescription,
		})
	}

	c.log(ctx, "response", methodGetWarehouses, map[string]any{"city": city, "page": page, "count": len(warehouses)})
	return warehouses, nil
}

// GetAllWarehouses walks every page for the given city until the API returns
// an empty page.
func (c *Client) GetAllWarehouses(ctx context.Context, city string) ([]Warehouse, error) {
	var all []Warehouse
	for page := 1; ; page++ {
		batch, err := c.GetWarehouses(ctx, city, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < c.pageSize {
			break
		}
	}
	return all, nil
}

func (c *Client) post(ctx context.Context, payload apiRequest) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode nova poshta request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build nova poshta request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call nova poshta")
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 16<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read nova poshta response")
	}

	if httpResp.StatusCode != http.StatusOK {
		err := fmt.Errorf("nova poshta returned status %d", httpResp.StatusCode)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call nova poshta")
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode nova poshta response")
	}
	return &resp, nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("nova poshta %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("nova poshta %s", phase))
	}
}
