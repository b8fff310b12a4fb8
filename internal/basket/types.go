package basket

import (
	"github.com/shopspring/decimal"

	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
)

// ItemDTO is one basket line joined with its product and variant.
type ItemDTO struct {
	ID        uint               `json:"id"`
	ProductID uint               `json:"product_id"`
	PriceID   uint               `json:"price_id"`
	Quantity  int                `json:"quantity"`
	Product   catalog.ProductDTO `json:"product"`
	Price     catalog.PriceDTO   `json:"price"`
	LineTotal decimal.Decimal    `json:"line_total"`
}

// BasketDTO is the full basket view with its running total.
type BasketDTO struct {
	ID    uint            `json:"id"`
	Items []ItemDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func itemToDTO(item models.BasketItem) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		PriceID:   item.PriceID,
		Quantity:  item.Quantity,
		LineTotal: decimal.Zero,
	}
	if item.Product != nil {
		dto.Product = catalogProductSummary(*item.Product)
	}
	if item.Price != nil {
		dto.Price = catalogPriceSummary(*item.Price)
		dto.LineTotal = item.Price.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
	}
	return dto
}

func catalogProductSummary(p models.Product) catalog.ProductDTO {
	return catalog.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Status:      p.Status,
		IsNew:       p.IsNew,
		IsPopular:   p.IsPopular,
		IsDeleted:   p.IsDeleted,
		CreatedAt:   p.CreatedAt,
	}
}

func catalogPriceSummary(p models.Price) catalog.PriceDTO {
	return catalog.PriceDTO{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Weight:      p.Weight,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Quantity:    p.Quantity,
		IsActive:    p.IsActive,
		Promotional: p.Promotional,
	}
}
